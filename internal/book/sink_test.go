package book

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestPDFSink tests PDF assembly and finalization.
func TestPDFSink(t *testing.T) {
	t.Parallel()

	t.Run("writes a parsable pdf file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "book.pdf")
		sink := NewPDFSink(path, "Manual Pages")

		sink.AddPage()
		sink.WriteTitle("bash: bash.1")
		sink.WriteTitle("NAME")
		sink.WriteBody("bash - GNU Bourne-Again SHell")
		sink.AddPage()
		sink.WriteTitle("curl: curl.1")
		sink.WriteBody("curl - transfer a URL")

		if err := sink.Finalize(); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		if !strings.HasPrefix(string(data), "%PDF") {
			t.Errorf("output does not start with PDF magic: %q", data[:8])
		}
	})

	t.Run("finalize overwrites a previous artifact", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "book.pdf")
		if err := os.WriteFile(path, []byte("stale"), 0600); err != nil {
			t.Fatal(err)
		}

		sink := NewPDFSink(path, "Manual Pages")
		sink.AddPage()
		sink.WriteBody("fresh")
		if err := sink.Finalize(); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) == "stale" {
			t.Error("previous artifact was not overwritten")
		}
	})

	t.Run("finalize into missing directory fails", func(t *testing.T) {
		t.Parallel()

		sink := NewPDFSink(filepath.Join(t.TempDir(), "no", "such", "dir", "x.pdf"), "T")
		sink.AddPage()
		sink.WriteBody("text")

		if err := sink.Finalize(); err == nil {
			t.Error("expected finalize error for missing directory")
		}
	})

	t.Run("handles non-latin1 input", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "book.pdf")
		sink := NewPDFSink(path, "Manual Pages")
		sink.AddPage()
		sink.WriteBody("curl \u2014 \u00fcbertr\u00e4gt eine URL \u2192 ok")

		if err := sink.Finalize(); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
	})
}

// TestMarkdownSink tests Markdown assembly and finalization.
func TestMarkdownSink(t *testing.T) {
	t.Parallel()

	t.Run("writes headings and bodies in order", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "book.md")
		sink := NewMarkdownSink(path, "Manual Pages")

		sink.AddPage()
		sink.WriteTitle("bash: bash.1")
		sink.WriteTitle("NAME")
		sink.WriteBody("bash - GNU Bourne-Again SHell")
		sink.AddPage()
		sink.WriteTitle("curl: curl.1")

		if err := sink.Finalize(); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		got := string(data)

		for _, want := range []string{
			"# Manual Pages",
			"## bash: bash.1",
			"### NAME",
			"bash - GNU Bourne-Again SHell",
			"## curl: curl.1",
			"---",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}

		if strings.Index(got, "## bash: bash.1") > strings.Index(got, "### NAME") {
			t.Error("page heading does not precede its section heading")
		}
	})

	t.Run("no rule before the first page", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "book.md")
		sink := NewMarkdownSink(path, "Manual Pages")
		sink.AddPage()
		sink.WriteTitle("only: page.1")

		if err := sink.Finalize(); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(data), "---") {
			t.Errorf("unexpected rule in single-page output:\n%s", data)
		}
	})
}
