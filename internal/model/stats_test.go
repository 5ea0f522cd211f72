package model

import (
	"testing"
	"time"
)

// TestNewSummary tests conversion of final stats into a summary record.
func TestNewSummary(t *testing.T) {
	t.Parallel()

	stats := RunStats{
		Processed:        3,
		PackagesWithDocs: 2,
		TotalPages:       3,
	}
	startedAt := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	s := NewSummary(stats, startedAt, 2*time.Second, "man_pages.pdf", "pdf")

	if s.Processed != 3 {
		t.Errorf("Processed = %d, want 3", s.Processed)
	}
	if s.PackagesWithDocs != 2 {
		t.Errorf("PackagesWithDocs = %d, want 2", s.PackagesWithDocs)
	}
	if s.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", s.TotalPages)
	}
	if s.HasFailures() {
		t.Error("expected no failures")
	}
	if s.Output != "man_pages.pdf" || s.Format != "pdf" {
		t.Errorf("unexpected output metadata: %q %q", s.Output, s.Format)
	}
}

// TestSummaryPackagesWithoutDocs tests the derived no-docs count.
func TestSummaryPackagesWithoutDocs(t *testing.T) {
	t.Parallel()

	t.Run("counts remainder", func(t *testing.T) {
		t.Parallel()

		s := &Summary{
			Processed:        10,
			PackagesWithDocs: 6,
			Failures:         []Failure{{Package: "broken", Message: "boom"}},
		}
		if got := s.PackagesWithoutDocs(); got != 3 {
			t.Errorf("PackagesWithoutDocs() = %d, want 3", got)
		}
	})

	t.Run("never negative", func(t *testing.T) {
		t.Parallel()

		s := &Summary{Processed: 1, PackagesWithDocs: 2}
		if got := s.PackagesWithoutDocs(); got != 0 {
			t.Errorf("PackagesWithoutDocs() = %d, want 0", got)
		}
	})
}

// TestBlockKindString tests kind names.
func TestBlockKindString(t *testing.T) {
	t.Parallel()

	if SectionHeader.String() != "header" {
		t.Errorf("SectionHeader.String() = %q", SectionHeader.String())
	}
	if BodyParagraph.String() != "paragraph" {
		t.Errorf("BodyParagraph.String() = %q", BodyParagraph.String())
	}
	if BlockKind(99).String() != "unknown" {
		t.Errorf("unknown kind String() = %q", BlockKind(99).String())
	}
}
