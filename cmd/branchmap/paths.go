package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/branchmap/internal/cli"
	"github.com/aretw0/branchmap/internal/presentation/report"
)

var pathsCmd = &cobra.Command{
	Use:   "paths [path]",
	Short: "List every distinct execution path of a workflow",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := printer(cmd)
		a, r, err := analyze(cmd, args, nil)
		exitOnError(p, err)
		exitOnError(p, p.Lines(report.PathLines(r.Paths, a.Config())))
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
	pathsCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text or json")
}
