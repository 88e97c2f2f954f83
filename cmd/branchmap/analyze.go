package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/branchmap/internal/cli"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Report the diagram, paths and validation of a workflow",
	Long: `Analyzes one workflow from a Go file, a Go package directory or a YAML element
document, and prints the Mermaid flowchart, the enumerated paths and the
validation warnings. On a terminal the report is rendered with glamour.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := printer(cmd)
		extra := map[string]any{}
		if cmd.Flags().Changed("compact") {
			extra["compact"], _ = cmd.Flags().GetBool("compact")
		}
		if v, _ := cmd.Flags().GetBool("mermaid-only"); v {
			extra["mermaid_only"] = true
		}

		a, r, err := analyze(cmd, args, extra)
		exitOnError(p, err)
		exitOnError(p, p.Report(a, r))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Bool("compact", false, "Render the compact diagram (one chain per new run of edges)")
	analyzeCmd.Flags().Bool("mermaid-only", false, "Print only the Mermaid diagram body")
	analyzeCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text or json")
}
