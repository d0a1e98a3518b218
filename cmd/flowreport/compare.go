package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/flowreport/internal/config"
	"github.com/nao1215/flowreport/internal/database"
	"github.com/nao1215/flowreport/internal/log"
	"github.com/nao1215/flowreport/internal/model"
	"github.com/nao1215/flowreport/internal/pipeline"
	"github.com/nao1215/flowreport/internal/report"
)

// ErrNoHistory is returned by compare --with-history when the export
// has never been recorded.
var ErrNoHistory = errors.New("no recorded analysis for this export")

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <old> <new>",
		Short: "Compare two versions of a flow export",
		Long: `Compare shows how a flow export changed between two versions:
- Node type counts that went up or down
- Dashboard pages and HTTP endpoints that were added or removed
- Function nodes that were added, removed, recategorized or edited

With --with-history, a single export is compared with its latest analysis
recorded by 'flowreport report --save'.

Examples:
  # Compare two exports
  flowreport compare flows-v1.json flows-v2.json

  # Compare with the last recorded analysis
  flowreport compare --with-history flows.json

  # Markdown output for a pull request description
  flowreport compare --markdown flows-v1.json flows-v2.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("with-history", "H", false,
		"Compare the export with its latest recorded analysis")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// compareOptions holds the parsed compare arguments.
type compareOptions struct {
	oldPath     string
	newPath     string
	withHistory bool
	format      report.DiffFormat
	dbDir       string
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	opts := compareOptions{dbDir: config.XDGDataDir()}

	var err error
	opts.withHistory, err = cmd.Flags().GetBool("with-history")
	if err != nil {
		return err
	}

	switch {
	case opts.withHistory && len(args) != 1:
		return errors.New("--with-history takes exactly one flow export")
	case opts.withHistory:
		opts.newPath = args[0]
	case len(args) != 2:
		return errors.New("two flow exports are required (or use --with-history with one)")
	default:
		opts.oldPath, opts.newPath = args[0], args[1]
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	switch {
	case jsonOutput:
		opts.format = report.DiffJSON
	case markdownOutput:
		opts.format = report.DiffMarkdown
	default:
		opts.format = report.DiffText
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	return runCompare(cmd.Context(), opts, cmd.OutOrStdout(), logger)
}

// runCompare summarizes both sides and writes their difference.
func runCompare(ctx context.Context, opts compareOptions, out io.Writer, logger *slog.Logger) error {
	current, err := summarize(ctx, opts.newPath, logger)
	if err != nil {
		return err
	}

	var previous *model.Summary
	if opts.withHistory {
		previous, err = latestSummary(ctx, opts.dbDir, opts.newPath)
	} else {
		previous, err = summarize(ctx, opts.oldPath, logger)
	}
	if err != nil {
		return err
	}

	_, err = report.NewDiffWriter(out, opts.format).Write(model.Compare(previous, current))
	return err
}

// summarize runs the load and summarize steps on one export.
func summarize(ctx context.Context, path string, logger *slog.Logger) (*model.Summary, error) {
	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewLoadStep(logger),
		pipeline.NewSummarizeStep(),
	)

	a := model.NewAnalysis(path)
	if err := p.Execute(ctx, a); err != nil {
		return nil, err
	}
	return a.Summary, nil
}

// latestSummary reads the most recent recorded analysis of path.
func latestSummary(ctx context.Context, dbDir, path string) (*model.Summary, error) {
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrNoDatabase) {
		return nil, fmt.Errorf("%w: %s (record one with 'flowreport report --save %s')", ErrNoHistory, path, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	summary, err := db.GetLatestSummary(ctx, path)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, fmt.Errorf("%w: %s (record one with 'flowreport report --save %s')", ErrNoHistory, path, path)
	}
	return summary, nil
}
