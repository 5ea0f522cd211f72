package model

import "time"

// Failure records one package whose worker hit an unexpected error.
//
// Absence of documentation is not a failure: packages without manual pages
// are counted in RunStats but never appear here.
type Failure struct {
	// Package is the package name the worker was processing.
	Package string `json:"package"`

	// Message is the error text recorded at the worker boundary.
	Message string `json:"message"`
}

// RunStats holds the counters accumulated while a run drains.
//
// Design decision: RunStats is a plain value owned by the pipeline's
// aggregator and mutated only by it, under a single mutex held inside the
// pipeline. Workers never touch it. Callers read it only after Run returns.
// This replaces ambient global counters with an explicit, single-writer
// value.
type RunStats struct {
	// Processed is the number of packages consumed by the aggregator.
	// At finalize time it equals the input package count regardless of
	// how many individual fetches failed.
	Processed int `json:"processed"`

	// PackagesWithDocs counts packages with at least one fetched page.
	PackagesWithDocs int `json:"packages_with_docs"`

	// TotalPages counts the (package, page) sections written to the
	// document.
	TotalPages int `json:"total_pages"`

	// Failures enumerates packages whose worker failed unexpectedly.
	Failures []Failure `json:"failures,omitempty"`
}

// Summary is a serializable run summary for report output and database
// storage.
//
// Design decision: We keep Summary separate from RunStats because RunStats
// is live pipeline state while Summary is a finished, presentation-ready
// record with run metadata attached. This mirrors the split between data
// collection and reporting.
type Summary struct {
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total wall-clock run time.
	Duration time.Duration `json:"duration"`

	// Output is the path of the generated document.
	Output string `json:"output"`

	// Format is the document format ("pdf" or "markdown").
	Format string `json:"format"`

	// Processed is the number of packages processed.
	Processed int `json:"processed"`

	// PackagesWithDocs counts packages that had documentation.
	PackagesWithDocs int `json:"packages_with_docs"`

	// TotalPages counts document sections written.
	TotalPages int `json:"total_pages"`

	// Failures enumerates per-package worker errors.
	Failures []Failure `json:"failures,omitempty"`
}

// NewSummary combines final run statistics with run metadata.
func NewSummary(stats RunStats, startedAt time.Time, duration time.Duration, output, format string) *Summary {
	return &Summary{
		StartedAt:        startedAt,
		Duration:         duration,
		Output:           output,
		Format:           format,
		Processed:        stats.Processed,
		PackagesWithDocs: stats.PackagesWithDocs,
		TotalPages:       stats.TotalPages,
		Failures:         stats.Failures,
	}
}

// PackagesWithoutDocs returns the count of processed packages that produced
// no document section and no failure.
func (s *Summary) PackagesWithoutDocs() int {
	n := s.Processed - s.PackagesWithDocs - len(s.Failures)
	if n < 0 {
		return 0
	}
	return n
}

// HasFailures reports whether any worker failed during the run.
func (s *Summary) HasFailures() bool {
	return len(s.Failures) > 0
}
