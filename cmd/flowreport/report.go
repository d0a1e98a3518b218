package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/flowreport/internal/config"
	"github.com/nao1215/flowreport/internal/database"
	"github.com/nao1215/flowreport/internal/loader"
	"github.com/nao1215/flowreport/internal/log"
	"github.com/nao1215/flowreport/internal/pipeline"
	"github.com/nao1215/flowreport/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [file|glob ...]",
		Short: "Generate a report from Node-RED flow exports",
		Long: `Report analyzes Node-RED flow exports and writes a Markdown report for each.

Without arguments the export named in the configuration file is read,
or flows.json in the current directory. Arguments may be file paths or
glob patterns; "**" matches any number of directories.

The report covers:
- Application overview, dashboard pages and UI groups
- UI components with their page and group
- MQTT brokers and topics, HTTP endpoints, database configuration
- Function node source code grouped by purpose
- UI theme and base settings

Examples:
  # Report on flows.json in the current directory
  flowreport report

  # Report in Traditional Chinese, written to a file
  flowreport report --lang zh-TW -o report.md flows.json

  # One report per export, four exports at a time
  flowreport report -O reports 'sites/**/flows.json'

  # Analysis summary as JSON, recorded in the history database
  flowreport report --json --save flows.json.gz`,
		Args: cobra.ArbitraryArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output the analysis summary as JSON instead of Markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file (single input only)")
	cmd.Flags().StringP("output-dir", "O", "",
		"Write one report per export into the specified directory")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of exports analyzed concurrently")
	cmd.Flags().StringP("lang", "l", config.DefaultLanguage,
		"Report language as a BCP 47 tag (en, zh-TW)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .flowreport or $XDG_CONFIG_HOME/flowreport/config.yaml)")
	cmd.Flags().BoolP("save", "s", false,
		"Record the analysis summary in the history database")
	cmd.Flags().Bool("chart", false,
		"Add a pie chart of function categories to the overview")

	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildReportConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runReport(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildReportConfig merges defaults, the configuration file and flags.
// Flags only override the file when they were set explicitly.
func buildReportConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path must exist; the default locations are optional.
	found := config.FindConfigFile(configPath)
	switch {
	case found != "":
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cfg.Apply(file)
		cfg.ConfigFilePath = found
	case configPath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	flags := cmd.Flags()

	if flags.Changed("json") {
		jsonOutput, err := flags.GetBool("json")
		if err != nil {
			return nil, err
		}
		cfg.Format = config.FormatMarkdown
		if jsonOutput {
			cfg.Format = config.FormatJSON
		}
	}

	if flags.Changed("output") {
		if cfg.OutputFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("batch") {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("lang") {
		if cfg.Language, err = flags.GetString("lang"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("save") {
		if cfg.SaveHistory, err = flags.GetBool("save"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("chart") {
		if cfg.CategoryChart, err = flags.GetBool("chart"); err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		cfg.Inputs = args
	}

	return cfg, nil
}

// runReport analyzes every input and delivers the reports.
//
// With --output or --output-dir each pipeline writes its own report.
// Otherwise the reports are printed to stdout after the batch, in input order.
// A failed export never produces output; the others are still reported and
// the returned error lists every failure.
func runReport(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	inputs, err := loader.ExpandInputs(cfg.Inputs)
	if err != nil {
		return err
	}
	if cfg.OutputFile != "" && len(inputs) > 1 {
		return config.ErrOutputFileWithMultipleInputs
	}

	var output pipeline.Output
	switch {
	case cfg.OutputFile != "":
		output = pipeline.NewFileOutput(cfg.OutputFile)
	case cfg.OutputDir != "":
		output = pipeline.NewDirOutput(cfg.OutputDir, inputs, reportExtension(cfg.Format))
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithReportFactory(reportFactory(cfg, len(inputs) > 1 && output == nil)),
		pipeline.WithStepLogger(logger),
	}
	if output != nil {
		configOpts = append(configOpts, pipeline.WithOutput(output))
	}

	if cfg.SaveHistory {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Debug("history database opened", "path", db.Path())
		configOpts = append(configOpts, pipeline.WithStore(db))
	}

	logger.Info("starting report",
		"inputs", len(inputs),
		"format", cfg.Format,
		"language", cfg.Language,
		"batchSize", cfg.BatchSize,
		"saveHistory", cfg.SaveHistory,
	)

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline([]pipeline.Option{pipeline.WithLogger(logger)}, configOpts...)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	results, batchErr := bp.ProcessBatch(ctx, inputs)

	// Reports for stdout are printed only now, in input order.
	var console *pipeline.WriterOutput
	if output == nil {
		console = pipeline.NewWriterOutput(stdout, "stdout")
	}

	var failures []error
	for _, a := range results {
		if a.Failed() {
			failures = append(failures, a.Err)
			continue
		}
		if console != nil {
			if _, err := console.Write(a.Source, a.Rendered); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		}
	}

	if batchErr != nil {
		return batchErr
	}

	switch len(failures) {
	case 0:
		return nil
	case 1:
		if len(inputs) == 1 {
			return failures[0]
		}
	}
	return fmt.Errorf("%d of %d exports failed:\n%w", len(failures), len(inputs), errors.Join(failures...))
}

// reportFactory returns the writer factory for the configured format.
// JSON is indented unless several summaries share stdout, where one
// summary per line keeps the stream parseable.
func reportFactory(cfg *config.Config, stream bool) report.Factory {
	if cfg.Format == config.FormatJSON {
		return func(w io.Writer) report.Writer {
			if stream {
				return report.NewJSONWriter(w)
			}
			return report.NewJSONWriter(w, report.WithPrettyPrint())
		}
	}

	return func(w io.Writer) report.Writer {
		return report.NewMarkdownWriter(w,
			report.WithLanguage(cfg.Language),
			report.WithCategoryChart(cfg.CategoryChart),
		)
	}
}

// reportExtension returns the file extension of reports in the given format.
func reportExtension(format config.Format) string {
	if format == config.FormatJSON {
		return ".json"
	}
	return ".md"
}
