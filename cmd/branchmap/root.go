package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/branchmap"
	"github.com/aretw0/branchmap/internal/cli"
	"github.com/aretw0/branchmap/internal/logging"
	"github.com/aretw0/branchmap/pkg/domain"
)

var rootCmd = &cobra.Command{
	Use:   "branchmap",
	Short: "branchmap maps every execution path of a branching workflow",
	Long: `branchmap statically analyzes workflow functions (Go source or YAML element
documents) and reports every possible execution path, a Mermaid flowchart of
them and the activities that are declared but never called.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: .branchmap.yaml next to the target or in the working directory)")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringP("workflow", "w", "", "Workflow to analyze (default: first in name order)")
	flags.StringSlice("registry", nil, "Additional registered activity names to validate against")
	flags.Int("max-gates", 0, "Maximum number of gates before the analysis is refused")
	flags.Int("max-paths", 0, "Maximum number of distinct paths")
	flags.String("id-style", "", "Gate id style: sequential or name")
	flags.String("direction", "", "Flowchart direction: LR, RL, TD, TB or BT")
	flags.Bool("no-split-words", false, "Keep activity names as written in node labels")
	flags.Bool("no-validate", false, "Skip the registry validation")
	flags.Bool("plain", false, "Disable terminal styling")
}

// target returns the path argument, defaulting to the working directory.
func target(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// newLogger builds the process logger from --log-level.
func newLogger(cmd *cobra.Command) (*slog.Logger, slog.Level, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, level, err
	}
	return logging.New(level), level, nil
}

// cliOptions collects the persistent flags; only flags set explicitly
// override the config file.
func cliOptions(cmd *cobra.Command, path string, extra map[string]any) cli.Options {
	flags := cmd.Flags()
	opts := cli.Options{Target: path, Overrides: map[string]any{}}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.Registry, _ = flags.GetStringSlice("registry")

	if flags.Changed("max-gates") {
		opts.Overrides["max_gates"], _ = flags.GetInt("max-gates")
	}
	if flags.Changed("max-paths") {
		opts.Overrides["max_paths"], _ = flags.GetInt("max-paths")
	}
	if flags.Changed("id-style") {
		opts.Overrides["decision_id_style"], _ = flags.GetString("id-style")
	}
	if flags.Changed("direction") {
		opts.Overrides["direction"], _ = flags.GetString("direction")
	}
	if v, _ := flags.GetBool("no-split-words"); v {
		opts.Overrides["split_words"] = false
	}
	if v, _ := flags.GetBool("no-validate"); v {
		opts.Overrides["suppress_validation"] = true
	}
	for k, v := range extra {
		opts.Overrides[k] = v
	}
	return opts
}

// newAnalyzer wires config, logger and hooks for a command.
func newAnalyzer(cmd *cobra.Command, path string, extra map[string]any, hooks domain.LifecycleHooks) (*branchmap.Analyzer, *slog.Logger, error) {
	logger, level, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts := cliOptions(cmd, path, extra)
	opts.Debug = level == slog.LevelDebug
	a, err := cli.NewAnalyzer(opts, logger, hooks)
	if err != nil {
		return nil, nil, err
	}
	return a, logger, nil
}

// analyze runs the selected workflow of the target path.
func analyze(cmd *cobra.Command, args []string, extra map[string]any) (*branchmap.Analyzer, *domain.Result, error) {
	path := target(args)
	a, _, err := newAnalyzer(cmd, path, extra, domain.LifecycleHooks{})
	if err != nil {
		return nil, nil, err
	}
	workflow, _ := cmd.Flags().GetString("workflow")
	r, err := a.AnalyzeFile(cmd.Context(), path, workflow)
	if err != nil {
		return nil, nil, err
	}
	return a, r, nil
}

// printer returns the output printer for a command.
func printer(cmd *cobra.Command) cli.Printer {
	plain, _ := cmd.Flags().GetBool("plain")
	format := cli.FormatText
	if f := cmd.Flags().Lookup("format"); f != nil {
		format = f.Value.String()
	}
	return cli.Printer{Out: os.Stdout, Err: os.Stderr, Format: format, Plain: plain}
}

// exitOnError prints err and terminates the process.
func exitOnError(p cli.Printer, err error) {
	if err == nil {
		return
	}
	p.Error(err)
	os.Exit(1)
}
