// Command xlr drives the tree-walking interpreter from the command
// line: evaluate one expression, replay a directory of saved
// expressions, or benchmark repeated evaluation of one.
//
// Grounded on cmd/morfx/main.go's thin entry point plus
// internal/cli/dispatcher.go and internal/cli/runner.go's
// runner-per-mode split, rebuilt here as a github.com/spf13/cobra
// command tree with one subcommand per mode instead of a single
// dispatcher function keyed by flag.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xlr-lang/xlr/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Resolve()

	root := &cobra.Command{
		Use:   "xlr",
		Short: "Evaluate XL rewrite expressions",
		Long:  "xlr drives the tree-walking interpreter outside of a host language embedding: evaluate one expression, replay saved ones, or benchmark evaluation.",
	}

	root.PersistentFlags().Int("max-depth", defaults.MaxDepth, "maximum rewrite recursion depth before a fatal stack-overflow diagnostic")
	root.PersistentFlags().String("telemetry", defaults.TelemetryDSN, "SQLite file path for the optional session recorder; empty disables it")
	root.PersistentFlags().String("log-level", defaults.LogLevel, "debug, info, or warn")
	root.PersistentFlags().Bool("color", defaults.TraceColor, "colorize trace and diagnostic output when attached to a terminal")

	root.AddCommand(newEvalCmd(), newTraceCmd(), newBenchCmd())
	return root
}

func configFromCmd(cmd *cobra.Command) config.Config {
	cfg := config.Resolve()
	if v, err := cmd.Flags().GetInt("max-depth"); err == nil && cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = v
	}
	if v, err := cmd.Flags().GetString("telemetry"); err == nil && cmd.Flags().Changed("telemetry") {
		cfg.TelemetryDSN = v
	}
	if v, err := cmd.Flags().GetString("log-level"); err == nil && cmd.Flags().Changed("log-level") {
		cfg.LogLevel = v
	}
	if v, err := cmd.Flags().GetBool("color"); err == nil && cmd.Flags().Changed("color") {
		cfg.TraceColor = v
	}
	return cfg
}
