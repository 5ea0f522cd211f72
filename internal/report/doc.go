// Package report provides run summary output.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with tables and a
//     coverage pie chart
//
// Design decision: We separate summary writing from the summary data
// structure (which lives in the model package) so new output formats can
// be added without touching the pipeline. Writers implement the Writer
// interface, allowing them to be used interchangeably and composed for
// multi-format output.
package report
