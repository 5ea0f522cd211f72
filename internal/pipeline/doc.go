// Package pipeline coordinates the concurrent fetch-and-aggregate run.
//
// A run moves through listing, dispatching, draining, and finalizing.
// The package list is partitioned into fixed-size batches; within a batch
// one worker goroutine per package locates and fetches that package's
// manual pages and pushes exactly one result onto a shared queue. A single
// aggregator goroutine drains the queue, formats the text, drives the
// document sink, and owns all run statistics.
//
// Design decision: workers never touch the sink or the statistics. This
// single-writer discipline avoids locking around document rendering calls,
// which are not safe for concurrent use. The queue is the only handoff
// between workers and the aggregator, and per-unit failures stay per-unit:
// a missing page or a failed worker is recorded and skipped, never allowed
// to abort the batch.
package pipeline
