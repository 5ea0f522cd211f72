package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkgdoc/manbook/internal/book"
	"github.com/pkgdoc/manbook/internal/config"
	"github.com/pkgdoc/manbook/internal/database"
	"github.com/pkgdoc/manbook/internal/log"
	"github.com/pkgdoc/manbook/internal/man"
	"github.com/pkgdoc/manbook/internal/model"
	"github.com/pkgdoc/manbook/internal/pipeline"
	"github.com/pkgdoc/manbook/internal/report"
	"github.com/pkgdoc/manbook/internal/syspkg"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [package...]",
		Short: "Harvest manual pages and assemble the document",
		Long: `Build discovers installable packages, renders each package's manual
pages to plain text, and assembles everything into one paginated
document.

Packages are processed in concurrent batches. Each batch fans out one
worker per package; a single aggregator drains the results and writes
the document, so output is never interleaved. Packages without manual
pages are counted but are not errors.

Examples:
  # Harvest every package the OS package manager knows
  manbook build

  # Harvest specific packages only
  manbook build bash coreutils grep

  # Write Markdown instead of PDF
  manbook build --format markdown -o man_pages.md

  # Tune concurrency and page width
  manbook build --batch 20 --man-width 100

  # Print the run summary as JSON
  manbook build --json

Configuration file (.manbook) example:
  defaults:
    batch_size: 30
    format: pdf
    title: "System Manual"
  skip:
    - "lib*"
    - "*-dbg"`,
		Args: cobra.ArbitraryArgs,
		RunE: runBuildCmd,
	}

	// Document flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Output document path")
	cmd.Flags().StringP("format", "f", config.FormatPDF,
		"Document format: pdf or markdown")
	cmd.Flags().StringP("title", "t", "",
		"Document title drawn on every page header")

	// Harvest behavior flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of packages processed concurrently")
	cmd.Flags().DurationP("queue-timeout", "q", config.DefaultQueueTimeout,
		"Aggregator queue pop timeout before re-checking worker liveness")
	cmd.Flags().IntP("man-width", "w", config.DefaultManWidth,
		"Column width requested from the manual page renderer")
	cmd.Flags().Bool("no-col-filter", false,
		"Do not pipe renderer output through 'col -bx'")

	// Subprocess command overrides
	cmd.Flags().String("list-command", config.DefaultListCommand,
		"Command that enumerates installable packages")
	cmd.Flags().String("manifest-command", config.DefaultManifestCommand,
		"Command that lists a package's installed files")
	cmd.Flags().String("man-command", config.DefaultManCommand,
		"Manual page renderer binary")

	// Trace and persistence flags
	cmd.Flags().String("sidecar", "",
		"Progress trace file path (default: XDG state dir, empty string given explicitly disables)")
	cmd.Flags().Bool("no-db", false,
		"Do not record this run in the history database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .manbook in current or home directory)")

	// Summary flags
	cmd.Flags().BoolP("json", "j", false,
		"Print the run summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as Markdown (mutually exclusive with --json)")

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, args []string) error {
	// Build config from file and flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runBuild(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the config file and cobra flags.
// Precedence is built-in defaults < config file < explicitly set flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load settings from the config file first so flags can override them.
	// If the user explicitly specified a config file path, error if not
	// found. If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags only override the file when the user actually set them;
	// otherwise a flag default would silently undo a file setting.
	if cmd.Flags().Changed("output") {
		if cfg.OutputFile, err = cmd.Flags().GetString("output"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("format") {
		if cfg.Format, err = cmd.Flags().GetString("format"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("title") {
		if cfg.Title, err = cmd.Flags().GetString("title"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("batch") {
		if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("queue-timeout") {
		if cfg.QueueTimeout, err = cmd.Flags().GetDuration("queue-timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("man-width") {
		if cfg.ManWidth, err = cmd.Flags().GetInt("man-width"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("list-command") {
		if cfg.ListCommand, err = cmd.Flags().GetString("list-command"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("manifest-command") {
		if cfg.ManifestCommand, err = cmd.Flags().GetString("manifest-command"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("man-command") {
		if cfg.ManCommand, err = cmd.Flags().GetString("man-command"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("sidecar") {
		if cfg.SidecarFile, err = cmd.Flags().GetString("sidecar"); err != nil {
			return nil, err
		}
	}

	noColFilter, err := cmd.Flags().GetBool("no-col-filter")
	if err != nil {
		return nil, err
	}
	cfg.UseColFilter = !noColFilter

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	cfg.JSONSummary, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	// Positional arguments restrict the harvest to explicit packages
	cfg.Packages = args

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// newLister chooses between OS discovery and an explicit package list.
func newLister(cfg *config.Config, logger *slog.Logger) pipeline.Lister {
	if len(cfg.Packages) > 0 {
		return pipeline.StaticLister(cfg.Packages)
	}
	return syspkg.NewLister(cfg.ListCommand,
		syspkg.WithListerLogger(logger),
		syspkg.WithSkipPatterns(cfg.Skip),
	)
}

// newSink creates the document sink for the configured format.
func newSink(cfg *config.Config) book.Sink {
	if cfg.Format == config.FormatMarkdown {
		return book.NewMarkdownSink(cfg.OutputFile, cfg.Title)
	}
	return book.NewPDFSink(cfg.OutputFile, cfg.Title)
}

// runBuild executes the harvest and reports the outcome.
func runBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting harvest",
		"output", cfg.OutputFile,
		"format", cfg.Format,
		"batchSize", cfg.BatchSize,
		"explicitPackages", len(cfg.Packages),
	)

	fetcherOpts := []man.FetcherOption{
		man.WithWidth(cfg.ManWidth),
		man.WithLogger(logger),
	}
	if cfg.UseColFilter {
		fetcherOpts = append(fetcherOpts, man.WithColFilter())
	}

	trace := log.OpenSidecar(cfg.SidecarFile, logger)
	defer trace.Close()

	runner := pipeline.New(
		newLister(cfg, logger),
		syspkg.NewLocator(cfg.ManifestCommand, syspkg.WithLocatorLogger(logger)),
		man.NewFetcher(cfg.ManCommand, fetcherOpts...),
		newSink(cfg),
		pipeline.WithBatchSize(cfg.BatchSize),
		pipeline.WithQueueTimeout(cfg.QueueTimeout),
		pipeline.WithSidecar(trace),
		pipeline.WithLogger(logger),
	)

	startedAt := time.Now()
	stats, err := runner.Run(ctx)
	duration := time.Since(startedAt)

	if err != nil {
		if errors.Is(err, pipeline.ErrNoPackages) {
			fmt.Println("No packages found; nothing to do.")
			fmt.Println("\nCheck the package list command with --list-command or the skip globs in .manbook.")
			return nil
		}
		return err
	}

	summary := model.NewSummary(stats, startedAt, duration, cfg.OutputFile, cfg.Format)
	if err := outputSummary(cfg, summary); err != nil {
		logger.Error("summary output failed", "error", err)
	}

	// Record the run in the history database (best effort)
	if cfg.SaveToDB {
		if err := saveRun(ctx, cfg.DBDir, summary, logger); err != nil {
			logger.Error("failed to save run history", "error", err)
		}
	}

	return nil
}

// outputSummary prints the run summary in the requested format.
func outputSummary(cfg *config.Config, summary *model.Summary) error {
	var w report.Writer
	switch {
	case cfg.JSONSummary:
		w = report.NewJSONWriter(os.Stdout)
	case cfg.MarkdownSummary:
		w = report.NewMarkdownWriter(os.Stdout)
	default:
		w = report.NewSimpleWriter(os.Stdout)
	}
	_, err := w.Write(summary)
	return err
}

// saveRun records the completed run in the history database.
func saveRun(ctx context.Context, dbDir string, summary *model.Summary, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved to history database", "id", id, "dir", dbDir)
	return nil
}
