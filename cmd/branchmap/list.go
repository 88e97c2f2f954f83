package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/branchmap/internal/cli"
	"github.com/aretw0/branchmap/pkg/domain"
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List the workflows found at a path",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := printer(cmd)
		path := target(args)
		a, _, err := newAnalyzer(cmd, path, nil, domain.LifecycleHooks{})
		exitOnError(p, err)

		loader, err := a.Loader(path)
		exitOnError(p, err)
		names, err := loader.ListWorkflows(cmd.Context())
		exitOnError(p, err)
		exitOnError(p, p.Lines(names))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text or json")
}
