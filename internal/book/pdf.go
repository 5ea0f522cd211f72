package book

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

// PDF layout constants, sized for A4 portrait.
const (
	pdfBodyFontSize    = 9.0
	pdfBodyLineHeight  = 4.0
	pdfTitleFontSize   = 11.0
	pdfTitleLineHeight = 6.0
	pdfMarginBottom    = 15.0
)

var _ Sink = (*PDFSink)(nil)

// PDFSink assembles a paginated PDF document. Every page carries the
// document title as a centered header and "Page N" as a footer; body text
// is set in Courier so the renderer's fixed-width layout survives.
type PDFSink struct {
	pdf  *fpdf.Fpdf
	path string

	// translate maps UTF-8 input to the cp1252 range of the built-in
	// core fonts. Unmappable runes degrade to their closest equivalent.
	translate func(string) string
}

// NewPDFSink creates a PDFSink that will persist to path on Finalize.
func NewPDFSink(path, title string) *PDFSink {
	pdf := fpdf.New("P", "mm", "A4", "")
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 10, translate(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.SetAutoPageBreak(true, pdfMarginBottom)

	return &PDFSink{
		pdf:       pdf,
		path:      path,
		translate: translate,
	}
}

// AddPage starts a new PDF page.
func (s *PDFSink) AddPage() {
	s.pdf.AddPage()
}

// WriteTitle writes a bold section heading.
func (s *PDFSink) WriteTitle(text string) {
	s.pdf.SetFont("Arial", "B", pdfTitleFontSize)
	s.pdf.MultiCell(0, pdfTitleLineHeight, s.translate(text), "", "L", false)
	s.pdf.Ln(1)
}

// WriteBody writes a fixed-width body block.
func (s *PDFSink) WriteBody(text string) {
	s.pdf.SetFont("Courier", "", pdfBodyFontSize)
	s.pdf.MultiCell(0, pdfBodyLineHeight, s.translate(text), "", "L", false)
	s.pdf.Ln(2)
}

// Finalize writes the PDF file, overwriting any previous run's artifact.
func (s *PDFSink) Finalize() error {
	if err := s.pdf.OutputFileAndClose(s.path); err != nil {
		return fmt.Errorf("write pdf %s: %w", s.path, err)
	}
	return nil
}
