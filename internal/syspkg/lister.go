package syspkg

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
)

// Lister enumerates candidate package names from the OS package system.
//
// The underlying query prints line-oriented "name/remainder" tuples, one
// per line (the apt/pkg list shape). The lister keeps the name part,
// deduplicates, and sorts, so its output has set semantics with a
// deterministic order.
type Lister struct {
	// command is the configured package query, e.g. "pkg list-all".
	command string

	// skip holds package-name globs excluded from the listing.
	skip []string

	// run executes the query subprocess.
	run RunFunc

	// logger is used for structured logging.
	logger *slog.Logger
}

// ListerOption configures a Lister.
type ListerOption func(*Lister)

// WithListerRunner substitutes the subprocess call. Used by tests.
func WithListerRunner(run RunFunc) ListerOption {
	return func(l *Lister) {
		l.run = run
	}
}

// WithListerLogger sets a custom logger.
func WithListerLogger(logger *slog.Logger) ListerOption {
	return func(l *Lister) {
		l.logger = logger
	}
}

// WithSkipPatterns excludes packages whose name matches any of the given
// globs (path.Match syntax). Invalid patterns never match.
func WithSkipPatterns(patterns []string) ListerOption {
	return func(l *Lister) {
		l.skip = patterns
	}
}

// NewLister creates a Lister that runs the given package query command.
func NewLister(command string, opts ...ListerOption) *Lister {
	l := &Lister{
		command: command,
		run:     execOutput,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// ListPackages returns all package names known to the OS package system,
// deduplicated and sorted. A failed query is fatal for the run: no partial
// listing is usable, since downstream work would have nothing to iterate.
func (l *Lister) ListPackages(ctx context.Context) ([]string, error) {
	name, args := splitCommand(l.command)
	if name == "" {
		return nil, fmt.Errorf("empty package list command")
	}

	out, err := l.run(ctx, name, args...)
	if err != nil {
		return nil, fmt.Errorf("package listing %q failed: %w", l.command, err)
	}

	seen := make(map[string]struct{})
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// "name/remainder" tuples; lines without a slash are headers or
		// progress noise from the package manager.
		pkg, _, found := strings.Cut(line, "/")
		if !found || pkg == "" {
			continue
		}
		if l.skipped(pkg) {
			continue
		}
		seen[pkg] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for pkg := range seen {
		names = append(names, pkg)
	}
	sort.Strings(names)

	l.logger.Debug("package listing complete",
		"command", l.command,
		"packages", len(names),
	)
	return names, nil
}

// skipped reports whether the package name matches a skip glob.
func (l *Lister) skipped(pkg string) bool {
	for _, pattern := range l.skip {
		if ok, err := path.Match(pattern, pkg); err == nil && ok {
			return true
		}
	}
	return false
}
