// Package model defines the core data structures used throughout manbook.
//
// This package contains the following main types:
//   - PageRef: A located manual page path with its display name
//   - FetchResult: One package's harvested pages, produced by a worker
//   - Block: A formatted text block (section header or body paragraph)
//   - RunStats: Counters accumulated by the aggregator during a run
//   - Summary: A serializable run summary for reports and storage
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (syspkg, man, pipeline, report, database)
// need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
