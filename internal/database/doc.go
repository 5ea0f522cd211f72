// Package database provides SQLite-based storage for run history.
//
// Every completed harvest saves its summary and failure list, keyed by
// start time. The history command reads this back so coverage can be
// compared across runs without keeping the generated documents around.
//
// Design decision: We use modernc.org/sqlite (pure Go, no cgo) so the
// binary stays trivially cross-compilable for the Android/Termux hosts
// this tool targets.
package database
