// Package log provides the sidecar trace file.
//
// The sidecar is an append-only plain-text record of every package and
// page the pipeline's aggregator handles, written incrementally while a
// run drains. It exists for post-mortem debugging of long harvests and is
// strictly best effort: a sidecar that cannot be opened or written never
// aborts the run.
package log
