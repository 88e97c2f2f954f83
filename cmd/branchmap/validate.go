package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Report registered activities that are never called",
	Long: `Analyzes a workflow and compares the activities it calls with the registry
(functions marked //branchmap:activity, the document registry and --registry).
With --strict, any warning makes the command fail.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := printer(cmd)
		_, r, err := analyze(cmd, args, nil)
		exitOnError(p, err)

		if len(r.Warnings) == 0 {
			fmt.Println("✓ All registered activities are called.")
			return
		}
		p.Warnings(r.Warnings)
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Exit with a non-zero status when warnings exist")
}
