package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no workers ever start.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidQueueTimeout is returned when the queue timeout is not
	// positive. The aggregator needs a real interval between liveness
	// checks.
	ErrInvalidQueueTimeout = errors.New("invalid queue timeout: must be positive")

	// ErrInvalidManWidth is returned when the renderer column width is
	// not positive.
	ErrInvalidManWidth = errors.New("invalid man width: must be positive")

	// ErrUnknownFormat is returned when the document format is neither
	// "pdf" nor "markdown".
	ErrUnknownFormat = errors.New("unknown document format: use \"pdf\" or \"markdown\"")

	// ErrNoOutputFile is returned when the output document path is empty.
	ErrNoOutputFile = errors.New("no output file specified")

	// ErrNoListCommand is returned when the package list command is empty.
	ErrNoListCommand = errors.New("no package list command specified")

	// ErrConflictingSummaryFormats is returned when both --json and
	// --markdown are specified. Only one summary format can be used at a
	// time.
	ErrConflictingSummaryFormats = errors.New("conflicting summary formats: --json and --markdown cannot be used together")
)
