package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/flowreport/internal/model"
)

// Step is one stage of a report run. A step reads what earlier steps left
// in the analysis and adds its own result.
type Step interface {
	Do(ctx context.Context, a *model.Analysis) error
	Name() string
}

// Pipeline runs its steps in order on one analysis. The first failing step
// ends the run, so nothing is written for an export that did not load.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New returns an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps on a.
//
// The context is checked between steps; a running step is not interrupted.
// On failure the error is stored in a.Err and a.ErrorMessage and returned,
// and a.PerformedSteps lists only the steps that succeeded.
func (p *Pipeline) Execute(ctx context.Context, a *model.Analysis) error {
	logger := p.logger.With("source", a.Source)
	started := time.Now()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			logger.Warn("report cancelled", "before", step.Name(), "reason", err)
			return fail(a, err)
		}
		if err := p.runStep(ctx, logger, step, a); err != nil {
			return fail(a, err)
		}
	}

	logger.Debug("report finished", "steps", len(p.steps), "elapsed", time.Since(started))
	return nil
}

func (p *Pipeline) runStep(ctx context.Context, logger *slog.Logger, step Step, a *model.Analysis) error {
	logger = logger.With("step", step.Name())
	logger.Info("executing step")

	started := time.Now()
	if err := step.Do(ctx, a); err != nil {
		logger.Error("step failed", "error", err)
		return err
	}

	logger.Debug("step completed", "elapsed", time.Since(started))
	a.PerformedSteps = append(a.PerformedSteps, step.Name())
	return nil
}

func fail(a *model.Analysis, err error) error {
	a.Err = err
	a.ErrorMessage = err.Error()
	return err
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
