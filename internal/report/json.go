package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/flowreport/internal/model"
)

// JSONWriter writes the analysis summary as one JSON document followed by
// a newline. Compact output is one summary per line.
//
// HTML characters are not escaped: page names such as "R&D" and endpoint
// paths stay readable.
type JSONWriter struct {
	baseWriter
	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent, each line starting with prefix.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix, w.indent = prefix, indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter returns a compact JSONWriter writing to output.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write encodes the summary of a.
func (w *JSONWriter) Write(a *model.Analysis) (int, error) {
	summary, err := summaryOf(a)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.prefix != "" || w.indent != "" {
		enc.SetIndent(w.prefix, w.indent)
	}
	if err := enc.Encode(summary); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
