package syspkg

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkgdoc/manbook/internal/model"
)

// Locator lists the manual pages owned by one package by querying the
// installed-file manifest (dpkg -L style: one absolute path per line).
//
// Locate never fails. Packages without a manifest, without manual pages,
// or unknown to the manifest query all yield an empty result, which
// signals the caller to fall back to direct lookup by bare package name.
type Locator struct {
	// command is the configured manifest query, e.g. "dpkg -L". The
	// package name is appended as the final argument.
	command string

	// run executes the query subprocess.
	run RunFunc

	// logger is used for structured logging.
	logger *slog.Logger
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithLocatorRunner substitutes the subprocess call. Used by tests.
func WithLocatorRunner(run RunFunc) LocatorOption {
	return func(l *Locator) {
		l.run = run
	}
}

// WithLocatorLogger sets a custom logger.
func WithLocatorLogger(logger *slog.Logger) LocatorOption {
	return func(l *Locator) {
		l.logger = logger
	}
}

// NewLocator creates a Locator that runs the given manifest query command.
func NewLocator(command string, opts ...LocatorOption) *Locator {
	l := &Locator{
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

// Locate returns the documentation page refs owned by the package,
// possibly empty. Manifest lines are kept when they sit under a man
// directory and do not end in a compressed-file suffix; the renderer is
// handed uncompressed paths only.
func (l *Locator) Locate(ctx context.Context, pkg string) []model.PageRef {
	name, args := splitCommand(l.command)
	if name == "" {
		return nil
	}

	out, err := l.run(ctx, name, append(args, pkg)...)
	if err != nil {
		// Missing package or absent manifest tool. Both are common and
		// non-fatal; the caller falls back to a bare-name lookup.
		l.logger.Debug("manifest query failed",
			"package", pkg,
			"error", err,
		)
		return nil
	}

	var refs []model.PageRef
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !isManPath(line) {
			continue
		}
		if model.HasCompressionSuffix(line) {
			continue
		}
		refs = append(refs, model.NewPageRef(line))
	}
	return refs
}

// isManPath reports whether a manifest line points at a manual page file.
// Pages live under a man tree (.../man/man1/bash.1, including localized
// .../man/de/man1/... variants); the section directories themselves carry
// no dot in their basename and are excluded.
func isManPath(line string) bool {
	if line == "" || strings.HasSuffix(line, "/") {
		return false
	}
	if !strings.Contains(line, "/man/") {
		return false
	}
	base := line[strings.LastIndexByte(line, '/')+1:]
	return strings.ContainsRune(base, '.')
}
