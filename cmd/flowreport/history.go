package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/flowreport/internal/config"
	"github.com/nao1215/flowreport/internal/database"
	"github.com/nao1215/flowreport/internal/model"
	"github.com/nao1215/flowreport/internal/report"
)

// fingerprintWidth is the number of fingerprint characters shown in listings.
const fingerprintWidth = 12

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [source]",
		Short: "List recorded analyses",
		Long: `History lists the analyses recorded with 'flowreport report --save'.

Without a source, every recorded export is listed. With a source, its
analyses are listed newest first with their fingerprint and node counts.

Examples:
  # List recorded exports
  flowreport history --list-sources

  # List the analyses of one export
  flowreport history flows.json

  # Print a recorded summary as JSON
  flowreport history --show 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-sources", "L", false,
		"List every export with recorded analyses")
	cmd.Flags().Int64("show", 0,
		"Print the recorded summary with the given ID as JSON")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSources, err := cmd.Flags().GetBool("list-sources")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}

	var source string
	if len(args) == 1 {
		source = args[0]
	}

	return runHistory(cmd.Context(), config.XDGDataDir(), historyRequest{
		source:      source,
		listSources: listSources || (source == "" && showID == 0),
		showID:      showID,
	}, cmd.OutOrStdout())
}

// historyRequest selects what the history command prints.
type historyRequest struct {
	source      string
	listSources bool
	showID      int64
}

func runHistory(ctx context.Context, dbDir string, req historyRequest, out io.Writer) error {
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrNoDatabase) {
		fmt.Fprintln(out, "No analyses recorded yet.")
		fmt.Fprintln(out, "\nUse 'flowreport report --save <file>' to record one.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	switch {
	case req.showID != 0:
		return showSummary(ctx, db, req.showID, out)
	case req.listSources:
		return listSources(ctx, db, out)
	default:
		return listHistory(ctx, db, req.source, out)
	}
}

func listSources(ctx context.Context, db *database.HistoryDB, out io.Writer) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		fmt.Fprintln(out, "No analyses recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "Recorded exports (%d):\n\n", len(sources))
	for _, source := range sources {
		fmt.Fprintf(out, "  • %s\n", source)
	}
	fmt.Fprintln(out, "\nUse 'flowreport history <file>' to see the analyses of an export.")
	return nil
}

func listHistory(ctx context.Context, db *database.HistoryDB, source string, out io.Writer) error {
	history, err := db.GetHistory(ctx, source)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Fprintf(out, "No analyses recorded for %s\n", source)
		return nil
	}

	fmt.Fprintf(out, "History for %s (%d analyses):\n\n", database.SourceKey(source), len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %-*s  %6s  %9s\n", "ID", "Date", fingerprintWidth, "Fingerprint", "Nodes", "Functions")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 6+2+20+2+fingerprintWidth+2+6+2+9))

	for _, meta := range history {
		fmt.Fprintf(out, "  %-6d  %-20s  %-*s  %6d  %9d\n",
			meta.ID,
			meta.AnalyzedAt.Local().Format("2006-01-02 15:04:05"),
			fingerprintWidth, shortFingerprint(meta.Fingerprint),
			meta.TotalNodes,
			meta.FunctionCount,
		)
	}

	fmt.Fprintf(out, "\nUse 'flowreport compare --with-history %s' to compare with the latest analysis.\n", source)
	return nil
}

func showSummary(ctx context.Context, db *database.HistoryDB, id int64, out io.Writer) error {
	summary, err := db.GetSummaryByID(ctx, id)
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("no recorded analysis with ID %d", id)
	}

	a := model.NewAnalysis(summary.Source)
	a.Summary = summary
	_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).Write(a)
	return err
}

func shortFingerprint(fp string) string {
	if len(fp) > fingerprintWidth {
		return fp[:fingerprintWidth]
	}
	return fp
}
