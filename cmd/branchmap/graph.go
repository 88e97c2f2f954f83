package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/branchmap/internal/presentation/report"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Export the flowchart of a workflow",
	Long:  `Analyzes a workflow and outputs only the Mermaid flowchart, ready to pipe into a renderer.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := printer(cmd)
		extra := map[string]any{}
		if cmd.Flags().Changed("compact") {
			extra["compact"], _ = cmd.Flags().GetBool("compact")
		}
		a, r, err := analyze(cmd, args, extra)
		exitOnError(p, err)
		fmt.Print(report.Diagram(r, a.Config()))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("compact", false, "Render the compact diagram")
}
