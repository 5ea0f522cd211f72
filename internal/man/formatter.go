package man

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/pkgdoc/manbook/internal/model"
)

// ansiEscape matches ANSI CSI color/style sequences left behind when the
// renderer was not fully convinced it writes to a dumb terminal.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// horizontalSpace matches runs of spaces and tabs within one line.
var horizontalSpace = regexp.MustCompile(`[ \t]+`)

// sectionHeader matches the conventional man page section title shape:
// starts with an uppercase letter, consists only of uppercase letters and
// spaces (e.g. "NAME", "SEE ALSO"). An all-uppercase body sentence will be
// misclassified; that is an accepted heuristic limitation.
var sectionHeader = regexp.MustCompile(`^[A-Z][A-Z ]*$`)

// dropControl removes non-printable control characters, keeping newlines
// and tabs for the later whitespace pass. This also disposes of form feeds.
var dropControl = runes.Remove(runes.Predicate(func(r rune) bool {
	return r != '\n' && r != '\t' && unicode.IsControl(r)
}))

// Format transforms raw rendered text into a block sequence ready for
// document output. Block order reflects the reading order of the original
// page. Empty input yields an empty slice, not an error.
//
// Formatting already-normalized text is idempotent on classification:
// normalized output contains no overstrike, escapes, or doubled
// whitespace, and header lines re-classify as headers.
func Format(raw string) []model.Block {
	if raw == "" {
		return nil
	}

	text := resolveOverstrike(raw)
	text = ansiEscape.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text, _, _ = transform.String(dropControl, text)

	var blocks []model.Block
	var paragraph []string

	flush := func() {
		if len(paragraph) > 0 {
			blocks = append(blocks, model.Paragraph(strings.Join(paragraph, "\n")))
			paragraph = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		switch {
		case line == "":
			// Blank-line separation; consecutive blanks collapse into a
			// single paragraph boundary.
			flush()
		case sectionHeader.MatchString(line):
			flush()
			blocks = append(blocks, model.Header(line))
		default:
			paragraph = append(paragraph, line)
		}
	}
	flush()

	return blocks
}

// Render joins a block sequence back into normalized text, one blank line
// between blocks. Formatting the result again yields the same
// classification.
func Render(blocks []model.Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n\n")
}

// resolveOverstrike collapses legacy bold and underline rendering, where
// nroff emulates emphasis by doubling a character over a backspace
// ("X\bX" for bold, "_\bX" for underline). The doubled character collapses
// to one; stray backspaces are dropped.
func resolveOverstrike(s string) string {
	if !strings.ContainsRune(s, '\b') {
		return s
	}

	in := []rune(s)
	out := make([]rune, 0, len(in))
	for i := 0; i < len(in); i++ {
		r := in[i]
		if r != '\b' {
			out = append(out, r)
			continue
		}
		if len(out) == 0 {
			continue
		}
		prev := out[len(out)-1]
		out = out[:len(out)-1]
		if i+1 < len(in) {
			next := in[i+1]
			i++
			// Underline overstrike keeps the printable character no
			// matter which side the underscore was typed on.
			if next == '_' && prev != '_' {
				out = append(out, prev)
			} else {
				out = append(out, next)
			}
		}
	}
	return string(out)
}
