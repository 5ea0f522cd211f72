package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values follow the original Termux workflow where applicable and are
// otherwise chosen to keep OS subprocess pressure bounded.
const (
	// DefaultListCommand enumerates all installable packages. The Termux
	// front end prints one "name/remainder" tuple per line, which is the
	// line shape the lister parses. Debian-style hosts can override this
	// with e.g. "apt list" in the config file or via --list-command.
	DefaultListCommand = "pkg list-all"

	// DefaultManifestCommand lists the files owned by one package. The
	// package name is appended as the final argument.
	DefaultManifestCommand = "dpkg -L"

	// DefaultManCommand is the external manual page renderer.
	DefaultManCommand = "man"

	// DefaultBatchSize bounds how many worker goroutines, and therefore
	// how many renderer subprocesses, are live at once. 50 keeps a full
	// system harvest (typically 1000+ packages) moving without exhausting
	// process limits on constrained devices.
	DefaultBatchSize = 50

	// DefaultQueueTimeout is how long the aggregator waits on the result
	// queue before re-checking worker liveness. Expiry alone is never a
	// terminal condition.
	DefaultQueueTimeout = 1 * time.Second

	// DefaultManWidth is the column width requested from the renderer via
	// MANWIDTH. 80 matches the classic terminal width man pages are
	// typeset for.
	DefaultManWidth = 80

	// DefaultOutputFile is the generated document path. Subsequent runs
	// overwrite it.
	DefaultOutputFile = "man_pages.pdf"

	// FormatPDF and FormatMarkdown are the supported document formats.
	FormatPDF      = "pdf"
	FormatMarkdown = "markdown"

	// AppName is the application name used for XDG directory paths.
	AppName = "manbook"
)

// Config holds all configuration options for manbook.
// This struct is populated from CLI flags and the optional config file and
// passed through the application via dependency injection rather than
// global state.
type Config struct {
	// ListCommand is the OS package query, split on whitespace.
	ListCommand string

	// ManifestCommand is the per-package file manifest query, split on
	// whitespace; the package name is appended.
	ManifestCommand string

	// ManCommand is the manual page renderer binary.
	ManCommand string

	// UseColFilter pipes renderer output through "col -bx" to strip
	// overstrike and control sequences at the source. Filter failure is
	// non-fatal; raw renderer output is used instead.
	UseColFilter bool

	// ManWidth is the column width requested from the renderer.
	ManWidth int

	// BatchSize is the number of packages processed concurrently before
	// the next batch starts. Bounds live worker goroutines and renderer
	// subprocesses.
	BatchSize int

	// QueueTimeout is the aggregator's queue pop timeout, after which it
	// re-checks whether the batch's workers are still alive.
	QueueTimeout time.Duration

	// OutputFile is the generated document path.
	OutputFile string

	// Format selects the document sink: "pdf" or "markdown".
	Format string

	// Title is the document title drawn on every PDF page header and at
	// the top of Markdown output.
	Title string

	// SidecarFile is the append-only trace of every package and page the
	// aggregator handles. Best effort; its failure never aborts a run.
	// Empty disables the sidecar.
	SidecarFile string

	// Packages overrides discovery with an explicit package list. When
	// empty, the lister enumerates the whole system.
	Packages []string

	// Skip lists package-name globs excluded from harvesting, loaded
	// from the config file.
	Skip []string

	// ConfigFilePath is the config file path. If empty, the tool searches
	// for .manbook in the current directory and then in the home
	// directory.
	ConfigFilePath string

	// Verbose enables slog.LevelDebug output. When false, only warnings
	// and errors are logged.
	Verbose bool

	// DBDir is the directory holding the SQLite run history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether completed runs are recorded in the
	// history database.
	SaveToDB bool

	// JSONSummary prints the run-end summary as JSON instead of the
	// human-readable report. Mutually exclusive with MarkdownSummary.
	JSONSummary bool

	// MarkdownSummary prints the run-end summary as Markdown.
	// Mutually exclusive with JSONSummary.
	MarkdownSummary bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
func NewConfig() *Config {
	return &Config{
		ListCommand:     DefaultListCommand,
		ManifestCommand: DefaultManifestCommand,
		ManCommand:      DefaultManCommand,
		UseColFilter:    true,
		ManWidth:        DefaultManWidth,
		BatchSize:       DefaultBatchSize,
		QueueTimeout:    DefaultQueueTimeout,
		OutputFile:      DefaultOutputFile,
		Format:          FormatPDF,
		Title:           "Manual Pages for Installed Packages",
		SidecarFile:     filepath.Join(XDGStateDir(), "trace.log"),
	}
}

// XDGDataDir returns the XDG data directory for manbook.
// On Linux: ~/.local/share/manbook
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for manbook.
// On Linux: ~/.config/manbook
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGStateDir returns the XDG state directory for manbook.
// On Linux: ~/.local/state/manbook
func XDGStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found; fixing one error often makes others
// irrelevant. Called once after CLI parsing, before any work begins.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.QueueTimeout <= 0 {
		return ErrInvalidQueueTimeout
	}
	if c.ManWidth <= 0 {
		return ErrInvalidManWidth
	}
	if c.Format != FormatPDF && c.Format != FormatMarkdown {
		return ErrUnknownFormat
	}
	if c.OutputFile == "" {
		return ErrNoOutputFile
	}
	if c.ListCommand == "" {
		return ErrNoListCommand
	}
	if c.JSONSummary && c.MarkdownSummary {
		return ErrConflictingSummaryFormats
	}
	return nil
}
