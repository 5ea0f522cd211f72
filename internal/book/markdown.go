package book

import (
	"bytes"
	"fmt"
	"os"

	"github.com/nao1215/markdown"
)

var _ Sink = (*MarkdownSink)(nil)

// MarkdownSink assembles a single Markdown document. Pages become
// rule-separated sections: the document title is an H1, page titles are
// H2 headings, and the formatter's section headers arrive through
// WriteTitle on the same page, rendered as H3.
type MarkdownSink struct {
	md   *markdown.Markdown
	buf  bytes.Buffer
	path string

	// pages counts AddPage calls; used to place rules between pages and
	// to render the first WriteTitle of a page as the page heading.
	pages  int
	titled bool
}

// NewMarkdownSink creates a MarkdownSink that will persist to path on
// Finalize.
func NewMarkdownSink(path, title string) *MarkdownSink {
	s := &MarkdownSink{path: path}
	s.md = markdown.NewMarkdown(&s.buf)
	s.md.H1(title)
	s.md.PlainText("")
	return s
}

// AddPage starts a new document section.
func (s *MarkdownSink) AddPage() {
	if s.pages > 0 {
		s.md.HorizontalRule()
	}
	s.pages++
	s.titled = false
}

// WriteTitle writes a heading: the first title on a page is the page
// heading (H2), subsequent ones are section headings (H3).
func (s *MarkdownSink) WriteTitle(text string) {
	if s.titled {
		s.md.H3(text)
	} else {
		s.md.H2(text)
		s.titled = true
	}
	s.md.PlainText("")
}

// WriteBody writes a body block.
func (s *MarkdownSink) WriteBody(text string) {
	s.md.PlainText(text)
	s.md.PlainText("")
}

// Finalize builds the Markdown and writes the file, overwriting any
// previous run's artifact.
func (s *MarkdownSink) Finalize() error {
	if err := s.md.Build(); err != nil {
		return fmt.Errorf("build markdown: %w", err)
	}
	if err := os.WriteFile(s.path, s.buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write markdown %s: %w", s.path, err)
	}
	return nil
}
