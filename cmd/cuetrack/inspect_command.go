package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuetrack/cuetrack/analysis"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <analysis-json>",
		Short: "Print a summary of a saved analysis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analysis.LoadAnalysis(args[0])
			if err != nil {
				return err
			}

			printSummary(cmd, result)

			for i, s := range result.AnimationEvents.Sections {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %8.2f - %8.2f s\n", s.Label, s.Start, s.End)
				if i >= 19 {
					fmt.Fprintln(cmd.OutOrStdout(), "  ...")
					break
				}
			}
			return nil
		},
	}
}
