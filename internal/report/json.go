package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkgdoc/manbook/internal/model"
)

// JSONWriter outputs the summary as indented JSON.
// This format is designed for tool integration and scripting.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary as JSON.
func (w *JSONWriter) Write(summary *model.Summary) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
