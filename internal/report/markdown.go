package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/pkgdoc/manbook/internal/model"
)

// MarkdownWriter outputs the summary in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides type-safe tables, GitHub-flavored
// alerts, and mermaid chart embedding.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCoverage(md, summary)
	w.writeFailures(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes run metadata.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Manbook Run Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration.Round(time.Millisecond).String()},
			{"Document", "`" + summary.Output + "` (" + summary.Format + ")"},
		},
	})
	md.PlainText("")
}

// writeCoverage writes the coverage table and pie chart.
func (w *MarkdownWriter) writeCoverage(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Coverage")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Packages processed", strconv.Itoa(summary.Processed)},
			{"With documentation", strconv.Itoa(summary.PackagesWithDocs)},
			{"Without documentation", strconv.Itoa(summary.PackagesWithoutDocs())},
			{"Pages written", strconv.Itoa(summary.TotalPages)},
			{"Failed", strconv.Itoa(len(summary.Failures))},
		},
	})
	md.PlainText("")

	if summary.Processed > 0 {
		w.writePieChart(md, summary)
	}
}

// writePieChart writes a mermaid pie chart of documentation coverage.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Documentation Coverage"),
		piechart.WithShowData(true),
	)

	if summary.PackagesWithDocs > 0 {
		chart.LabelAndIntValue("With docs", uint64(summary.PackagesWithDocs))
	}
	if n := summary.PackagesWithoutDocs(); n > 0 {
		chart.LabelAndIntValue("Without docs", uint64(n))
	}
	if len(summary.Failures) > 0 {
		chart.LabelAndIntValue("Failed", uint64(len(summary.Failures)))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFailures writes the failure list, or a tip when the run was clean.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, summary *model.Summary) {
	if !summary.HasFailures() {
		md.Tip("All packages were processed without errors.")
		md.PlainText("")
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, 0, len(summary.Failures))
	for _, f := range summary.Failures {
		rows = append(rows, []string{"`" + f.Package + "`", f.Message})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Package", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
	md.Warningf("%d package(s) failed during the run.", len(summary.Failures))
	md.PlainText("")
}
