package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nemanja-m/gopool/internal/textjob"
	"github.com/nemanja-m/gopool/pkg/pool"
)

func newGrepCmd(a *app) *cobra.Command {
	var (
		input      string
		expr       string
		ignoreCase bool
	)

	cmd := &cobra.Command{
		Use:   "grep",
		Short: "Print lines matching a regular expression",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pattern, err := textjob.CompilePattern(expr, ignoreCase)
			if err != nil {
				return err
			}
			files, err := textjob.FindFiles(input)
			if err != nil {
				return err
			}

			return a.run(cmd.Context(), "grep", func(p *pool.Pool) error {
				matches, err := textjob.Grep(p, files, pattern)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, m := range matches {
					fmt.Fprintf(out, "%s:%d:%s\n", m.Filename, m.Number, m.Text)
				}
				a.logger.Info("Grep finished", "files", len(files), "matches", len(matches))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "input files glob pattern (supports **)")
	cmd.Flags().StringVarP(&expr, "pattern", "e", "", "regular expression to search for")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "case-insensitive matching")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("pattern")
	return cmd
}
