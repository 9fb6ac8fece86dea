package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nemanja-m/gopool/internal/textjob"
	"github.com/nemanja-m/gopool/pkg/pool"
)

func newWordCountCmd(a *app) *cobra.Command {
	var (
		input string
		top   int
	)

	cmd := &cobra.Command{
		Use:   "wordcount",
		Short: "Count words across files matching a glob pattern",
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, err := textjob.FindFiles(input)
			if err != nil {
				return err
			}

			return a.run(cmd.Context(), "wordcount", func(p *pool.Pool) error {
				result, err := textjob.WordCountFiles(p, files)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, wc := range result.Top(top) {
					fmt.Fprintf(out, "%s\t%d\n", wc.Word, wc.Count)
				}
				a.logger.Info("Counted words",
					"files", result.Files,
					"lines", result.Lines,
					"distinct_words", len(result.Words),
				)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "input files glob pattern (supports **)")
	cmd.Flags().IntVar(&top, "top", 20, "number of words to print (0 = all)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
