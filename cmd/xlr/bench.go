package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xlr-lang/xlr/builtins"
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/snapshot"
)

func newBenchCmd() *cobra.Command {
	var iterations int

	cmd := &cobra.Command{
		Use:   "bench [expression]",
		Short: "Evaluate one expression repeatedly and report timing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromCmd(cmd)

			expr, err := snapshot.Parse(args[0])
			if err != nil {
				return fmt.Errorf("xlr bench: %w", err)
			}
			defer core.Release(expr)

			if iterations <= 0 {
				iterations = 1000
			}

			start := time.Now()
			var errorCount int
			for i := 0; i < iterations; i++ {
				result, ctx := builtins.Run(expr, cfg.MaxDepth)
				if ctx.Errors.HadErrors() {
					errorCount++
				}
				core.Release(result)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(cmd.OutOrStdout(), "%d evaluations in %s (%s/op), %d with diagnostics\n",
				iterations, elapsed, elapsed/time.Duration(iterations), errorCount)
			return nil
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "number of times to re-evaluate the expression")
	return cmd
}
