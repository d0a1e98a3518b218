package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for flowreport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flowreport",
		Short: "Generate documentation reports from Node-RED flow exports",
		Long: `flowreport reads a Node-RED flow export (flows.json) and writes a Markdown
report of the application it describes: dashboard pages, UI groups and
components, MQTT brokers and topics, HTTP endpoints, database configuration,
and the source code of every function node grouped by purpose.

Exports may be plain JSON or gzip/zstd compressed. Analyses can be recorded
in a local history database and compared with later versions of the flow.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
