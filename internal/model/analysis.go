package model

import "time"

// Analysis is the state of one flow export as it moves through the pipeline.
// Each pipeline step fills in part of it.
type Analysis struct {
	// Source is the path of the export as given by the user.
	Source string `json:"source"`

	// StartedAt is when the analysis was created.
	StartedAt time.Time `json:"startedAt"`

	// Raw holds the decompressed export bytes after loading.
	Raw []byte `json:"-"`

	// Document is the indexed export after loading.
	Document *Document `json:"-"`

	// Summary is set by the summarize step.
	Summary *Summary `json:"summary,omitempty"`

	// Rendered is the complete report produced by the render step.
	Rendered []byte `json:"-"`

	// Err is the error of the step that stopped the pipeline.
	Err error `json:"-"`

	// ErrorMessage is Err as text, kept for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the names of the steps that completed.
	PerformedSteps []string `json:"performedSteps"`
}

// NewAnalysis creates an Analysis for the given export path.
func NewAnalysis(source string) *Analysis {
	return &Analysis{
		Source:         source,
		StartedAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Failed reports whether a step recorded an error.
func (a *Analysis) Failed() bool {
	return a.Err != nil
}
