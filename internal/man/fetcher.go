package man

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/pkgdoc/manbook/internal/model"
)

// ErrPageNotFound is returned when the renderer produced no page.
// Every per-page failure mode (non-zero exit, missing renderer binary,
// killed subprocess) folds into this sentinel; callers skip the page and
// continue with the batch.
var ErrPageNotFound = errors.New("manual page not found")

// RunFunc executes the renderer and returns its stdout.
// Production code uses a real subprocess; tests substitute a fake.
type RunFunc func(ctx context.Context, env []string, name string, args ...string) ([]byte, error)

// FilterFunc post-processes renderer output, e.g. by piping it through
// col(1) to strip overstrike at the source.
type FilterFunc func(ctx context.Context, raw []byte) ([]byte, error)

// Fetcher renders manual pages to plain text via an external renderer.
type Fetcher struct {
	// command is the renderer binary, normally "man".
	command string

	// width is the column width requested via MANWIDTH.
	width int

	// filter optionally strips control sequences from renderer output.
	// A filter failure is non-fatal; raw output is used instead.
	filter FilterFunc

	// run executes the renderer subprocess.
	run RunFunc

	// logger is used for structured logging.
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithWidth sets the renderer column width.
func WithWidth(width int) FetcherOption {
	return func(f *Fetcher) {
		if width > 0 {
			f.width = width
		}
	}
}

// WithColFilter pipes renderer output through "col -bx".
func WithColFilter() FetcherOption {
	return func(f *Fetcher) {
		f.filter = colFilter
	}
}

// WithFilter sets a custom output filter. Used by tests.
func WithFilter(filter FilterFunc) FetcherOption {
	return func(f *Fetcher) {
		f.filter = filter
	}
}

// WithRunner substitutes the renderer subprocess call. Used by tests.
func WithRunner(run RunFunc) FetcherOption {
	return func(f *Fetcher) {
		f.run = run
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher for the given renderer command.
func NewFetcher(command string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		command: command,
		width:   80,
		run:     execEnvOutput,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch renders the referenced page and returns its plain text.
// Any renderer failure is folded into ErrPageNotFound; the error is
// terminal for this one page only, never for the run.
func (f *Fetcher) Fetch(ctx context.Context, ref model.PageRef) (string, error) {
	env := append(os.Environ(),
		"TERM=dumb",
		"MANPAGER=cat",
		"PAGER=cat",
		"GROFF_NO_SGR=1",
		fmt.Sprintf("MANWIDTH=%d", f.width),
	)

	out, err := f.run(ctx, env, f.command, ref.Target())
	if err != nil {
		f.logger.Debug("renderer failed",
			"target", ref.Target(),
			"error", err,
		)
		return "", fmt.Errorf("%w: %s", ErrPageNotFound, ref.Display())
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return "", fmt.Errorf("%w: %s", ErrPageNotFound, ref.Display())
	}

	if f.filter != nil {
		filtered, ferr := f.filter(ctx, out)
		if ferr != nil {
			f.logger.Debug("output filter failed, using raw output",
				"target", ref.Target(),
				"error", ferr,
			)
		} else {
			out = filtered
		}
	}
	return string(out), nil
}

// execEnvOutput runs a command with the given environment and returns its
// stdout. Stderr is discarded; a non-zero exit surfaces as *exec.ExitError.
func execEnvOutput(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	return cmd.Output()
}

// colFilter pipes raw renderer output through col(1) with -b (strip
// backspaces) and -x (spaces for tabs).
func colFilter(ctx context.Context, raw []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "col", "-bx")
	cmd.Stdin = bytes.NewReader(raw)
	return cmd.Output()
}
