package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkgdoc/manbook/internal/model"
)

// SimpleWriter outputs a human-readable text summary.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and pipes cleanly to
// files or other tools.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          MANBOOK RUN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Started:             %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:            %s\n", summary.Duration.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Document:            %s (%s)\n", summary.Output, summary.Format))
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("COVERAGE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Packages processed:     %d\n", summary.Processed))
	sb.WriteString(fmt.Sprintf("  With documentation:     %d\n", summary.PackagesWithDocs))
	sb.WriteString(fmt.Sprintf("  Without documentation:  %d\n", summary.PackagesWithoutDocs()))
	sb.WriteString(fmt.Sprintf("  Pages written:          %d\n", summary.TotalPages))
	sb.WriteString("\n")

	if summary.HasFailures() {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		sb.WriteString("FAILURES\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n\n")
		for _, f := range summary.Failures {
			sb.WriteString(fmt.Sprintf("  [!] %s: %s\n", f.Package, f.Message))
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}
