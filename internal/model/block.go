package model

// BlockKind classifies a formatted text block.
type BlockKind int

// Block kinds produced by the formatter.
const (
	// SectionHeader is a structural division inside a manual page,
	// recognized by the all-uppercase-letters-and-spaces convention
	// (e.g. "NAME", "SYNOPSIS").
	SectionHeader BlockKind = iota

	// BodyParagraph is a run of ordinary text lines grouped by blank-line
	// separation.
	BodyParagraph
)

// String returns the human-readable kind name.
func (k BlockKind) String() string {
	switch k {
	case SectionHeader:
		return "header"
	case BodyParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Block is one formatted unit of a rendered manual page. The sequence order
// of blocks reflects the reading order of the original page and must be
// preserved by consumers.
type Block struct {
	// Kind distinguishes section headers from body paragraphs.
	Kind BlockKind

	// Text is the normalized block content.
	Text string
}

// Header creates a SectionHeader block.
func Header(text string) Block {
	return Block{Kind: SectionHeader, Text: text}
}

// Paragraph creates a BodyParagraph block.
func Paragraph(text string) Block {
	return Block{Kind: BodyParagraph, Text: text}
}
