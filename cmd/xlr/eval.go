package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/xlr-lang/xlr/builtins"
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/diag"
	"github.com/xlr-lang/xlr/internal/snapshot"
	"github.com/xlr-lang/xlr/internal/telemetry"
)

func newEvalCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "eval [expression]",
		Short: "Evaluate one expression and print the reduced tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromCmd(cmd)

			src, err := readSource(args, file)
			if err != nil {
				return err
			}

			expr, err := snapshot.Parse(src)
			if err != nil {
				return fmt.Errorf("xlr eval: %w", err)
			}
			defer core.Release(expr)

			recorder, err := telemetry.Open(cfg.TelemetryDSN, false)
			if err != nil {
				return fmt.Errorf("xlr eval: %w", err)
			}
			defer recorder.Close()
			recorder.WithConfigSummary(fmt.Sprintf("max-depth=%d log-level=%s", cfg.MaxDepth, cfg.LogLevel))

			start := time.Now()
			result, ctx := builtins.Run(expr, cfg.MaxDepth)
			defer core.Release(result)
			elapsed := time.Since(start)

			var codes []string
			for _, d := range ctx.Errors.All() {
				codes = append(codes, string(d.Code))
			}
			recorder.RecordEval(snapshot.Render(expr), snapshot.Render(result), ctx.PeakDepth, ctx.Errors.HadErrors(), codes, elapsed)

			colorize := cfg.TraceColor && isatty.IsTerminal(os.Stdout.Fd())
			printResult(cmd, result, ctx.Errors, colorize)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the expression from a snapshot file instead of the command line")
	return cmd
}

func readSource(args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("xlr: reading %s: %w", file, err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("xlr: no expression given and stdin unavailable: %w", err)
	}
	return string(data), nil
}

func printResult(cmd *cobra.Command, result *core.Tree, errs *diag.Errors, colorize bool) {
	out := cmd.OutOrStdout()
	if colorize && errs.HadErrors() {
		fmt.Fprintf(out, "\x1b[33m%s\x1b[0m\n", snapshot.Render(result))
	} else {
		fmt.Fprintln(out, snapshot.Render(result))
	}
	for _, d := range errs.All() {
		if colorize {
			fmt.Fprintf(cmd.ErrOrStderr(), "\x1b[31m%s\x1b[0m\n", diag.Render(d))
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), diag.Render(d))
		}
	}
}
