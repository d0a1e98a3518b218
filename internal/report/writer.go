package report

import (
	"io"

	"github.com/nao1215/flowreport/internal/model"
)

// Writer renders one analysis. Write returns the number of bytes written.
type Writer interface {
	Write(a *model.Analysis) (int, error)
}

// Factory binds a Writer to an output. Pipelines call it once per export
// so every report is rendered into its own buffer.
type Factory func(output io.Writer) Writer

// baseWriter holds the destination shared by the writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// summaryOf returns the analysis summary, building it from the document
// when no summarize step ran.
func summaryOf(a *model.Analysis) (*model.Summary, error) {
	switch {
	case a == nil:
		return nil, ErrNoDocument
	case a.Summary != nil:
		return a.Summary, nil
	case a.Document == nil:
		return nil, ErrNoDocument
	}
	return model.NewSummary(a.Source, a.Raw, a.Document, model.NewClassifier(), a.StartedAt), nil
}
