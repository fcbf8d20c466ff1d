package main

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/xlr-lang/xlr/builtins"
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/snapshot"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <glob>",
		Short: "Replay every saved expression matching a glob and print each reduction",
		Long:  "trace glob-matches a set of snapshot files (e.g. traces/**/*.tree) and evaluates each one independently, reporting its reduced form and any diagnostics.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromCmd(cmd)

			matches, err := doublestar.FilepathGlob(args[0])
			if err != nil {
				return fmt.Errorf("xlr trace: %w", err)
			}
			if len(matches) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "xlr trace: no files matched %q\n", args[0])
				return nil
			}

			for _, path := range matches {
				if err := traceOne(cmd, path, cfg.MaxDepth); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "xlr trace: %s: %v\n", path, err)
				}
			}
			return nil
		},
	}
	return cmd
}

func traceOne(cmd *cobra.Command, path string, maxDepth int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	expr, err := snapshot.Parse(string(data))
	if err != nil {
		return err
	}
	defer core.Release(expr)

	result, ctx := builtins.Run(expr, maxDepth)
	defer core.Release(result)

	fmt.Fprintf(cmd.OutOrStdout(), "%s => %s\n", path, snapshot.Render(result))
	for _, d := range ctx.Errors.All() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, d.Error())
	}
	return nil
}
