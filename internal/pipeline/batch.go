package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/flowreport/internal/model"
)

// BatchProcessor analyzes several flow exports concurrently.
// Each export runs through its own pipeline; a single analysis stays sequential.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each export.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of exports analyzed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// The pipelineFactory is called once per export so no pipeline state
// is shared between exports.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes every source and returns the analyses in input order.
// A failed export does not stop the others; its error is recorded in its analysis.
// The returned error is only set when the context was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, sources []string) ([]*model.Analysis, error) {
	bp.logger.Info("starting batch processing",
		"total_sources", len(sources),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.Analysis, len(sources))
	for i, source := range sources {
		results[i] = model.NewAnalysis(source)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, a := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				a.Err = err
				a.ErrorMessage = err.Error()
				return err
			}

			bp.logger.Info("analyzing export",
				"source", a.Source,
				"index", i+1,
				"total", len(sources),
			)

			// The pipeline logs its own failure.
			if err := bp.pipelineFactory().Execute(gctx, a); err != nil {
				return nil
			}

			bp.logger.Info("analysis completed", "source", a.Source)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		// Pipelines report a cancellation in their own analysis only.
		err = ctx.Err()
	}

	bp.logger.Info("batch processing complete",
		"total_sources", len(sources),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
