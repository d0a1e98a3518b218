package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nao1215/flowreport/internal/loader"
	"github.com/nao1215/flowreport/internal/model"
	"github.com/nao1215/flowreport/internal/report"
)

// Step names.
const (
	StepLoad      = "load"
	StepSummarize = "summarize"
	StepRender    = "render"
	StepWrite     = "write"
	StepRecord    = "record"
)

// ErrStepOrder is returned when a step runs before the step it depends on.
var ErrStepOrder = errors.New("pipeline step is missing its input")

// LoadStep reads, decompresses and decodes the flow export.
type LoadStep struct {
	logger *slog.Logger
}

// NewLoadStep creates a new load step.
func NewLoadStep(logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return StepLoad
}

// Do loads the export named by the analysis source.
// Loader errors are returned unwrapped so callers can match them with errors.As.
func (s *LoadStep) Do(_ context.Context, a *model.Analysis) error {
	export, err := loader.Load(a.Source)
	if err != nil {
		return err
	}

	a.Raw = export.Raw
	a.Document = export.Document

	s.logger.Info("flow export loaded",
		"source", a.Source,
		"nodes", a.Document.Len(),
		"types", a.Document.TypeCount(),
	)
	return nil
}

// SummarizeStep digests the loaded document into a Summary.
type SummarizeStep struct {
	// now returns the analysis time. Tests replace it for stable output.
	now func() time.Time
}

// SummarizeStepOption configures a SummarizeStep.
type SummarizeStepOption func(*SummarizeStep)

// WithClock sets the function returning the analysis time.
func WithClock(now func() time.Time) SummarizeStepOption {
	return func(s *SummarizeStep) {
		s.now = now
	}
}

// NewSummarizeStep creates a new summarize step.
func NewSummarizeStep(opts ...SummarizeStepOption) *SummarizeStep {
	s := &SummarizeStep{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return StepSummarize
}

// Do computes the summary.
// Each call uses its own classifier, so concurrent pipelines never share one.
func (s *SummarizeStep) Do(_ context.Context, a *model.Analysis) error {
	if a.Document == nil {
		return fmt.Errorf("%s: %w", StepSummarize, ErrStepOrder)
	}
	a.Summary = model.NewSummary(a.Source, a.Raw, a.Document, model.NewClassifier(), s.now())
	return nil
}

// RenderStep renders the report into memory.
// Nothing reaches the destination until the whole report rendered successfully.
type RenderStep struct {
	factory report.Factory
}

// NewRenderStep creates a render step using the given writer factory.
func NewRenderStep(factory report.Factory) *RenderStep {
	return &RenderStep{factory: factory}
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return StepRender
}

// Do renders the analysis into a.Rendered.
func (s *RenderStep) Do(_ context.Context, a *model.Analysis) error {
	var buf bytes.Buffer
	if _, err := s.factory(&buf).Write(a); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	a.Rendered = buf.Bytes()
	return nil
}

// WriteStep copies the rendered report to its destination.
type WriteStep struct {
	output Output
	logger *slog.Logger
}

// NewWriteStep creates a write step for the given output.
func NewWriteStep(output Output, logger *slog.Logger) *WriteStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteStep{output: output, logger: logger}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return StepWrite
}

// Do writes a.Rendered to the output.
func (s *WriteStep) Do(_ context.Context, a *model.Analysis) error {
	if a.Rendered == nil {
		return fmt.Errorf("%s: %w", StepWrite, ErrStepOrder)
	}

	dest, err := s.output.Write(a.Source, a.Rendered)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	s.logger.Info("report written",
		"source", a.Source,
		"destination", dest,
		"bytes", len(a.Rendered),
	)
	return nil
}

// SummaryStore persists analysis summaries.
// database.HistoryDB implements it.
type SummaryStore interface {
	SaveSummary(ctx context.Context, s *model.Summary) (int64, error)
}

// RecordStep saves the summary to the history store.
type RecordStep struct {
	store  SummaryStore
	logger *slog.Logger
}

// NewRecordStep creates a record step.
func NewRecordStep(store SummaryStore, logger *slog.Logger) *RecordStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *RecordStep) Name() string {
	return StepRecord
}

// Do records a.Summary.
func (s *RecordStep) Do(ctx context.Context, a *model.Analysis) error {
	if a.Summary == nil {
		return fmt.Errorf("%s: %w", StepRecord, ErrStepOrder)
	}

	id, err := s.store.SaveSummary(ctx, a.Summary)
	if err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}

	s.logger.Info("summary recorded",
		"source", a.Source,
		"id", id,
	)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Factory creates the report writer. Defaults to the English Markdown writer.
	Factory report.Factory

	// Output receives the rendered report. When nil the report is only
	// kept in the analysis and the caller prints it.
	Output Output

	// Store records summaries. When nil nothing is recorded.
	Store SummaryStore

	// Clock returns the analysis time.
	Clock func() time.Time

	// Logger is passed to steps that log.
	Logger *slog.Logger
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithReportFactory sets the report writer factory.
func WithReportFactory(factory report.Factory) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Factory = factory
	}
}

// WithOutput sets the report destination.
func WithOutput(output Output) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Output = output
	}
}

// WithStore enables recording summaries in the given store.
func WithStore(store SummaryStore) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Store = store
	}
}

// WithPipelineClock sets the analysis time source.
func WithPipelineClock(now func() time.Time) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Clock = now
	}
}

// WithStepLogger sets the logger used by the steps.
func WithStepLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// DefaultPipeline creates the standard pipeline:
// load, summarize, render, then write and record when configured.
//
// The first parameter accepts pipeline options (WithLogger).
// The variadic parameter accepts step configuration (WithOutput, WithStore, ...).
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Factory: func(w io.Writer) report.Writer {
			return report.NewMarkdownWriter(w)
		},
		Clock:  time.Now,
		Logger: p.logger,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewLoadStep(cfg.Logger),
		NewSummarizeStep(WithClock(cfg.Clock)),
		NewRenderStep(cfg.Factory),
	)
	if cfg.Output != nil {
		p.AddStep(NewWriteStep(cfg.Output, cfg.Logger))
	}
	if cfg.Store != nil {
		p.AddStep(NewRecordStep(cfg.Store, cfg.Logger))
	}

	return p
}
