package main

import (
	"github.com/spf13/cobra"

	"github.com/cuetrack/cuetrack/logging"
)

func newRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "cuetrack",
		Short:         "Audio timing and energy analysis for animation triggers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.SetLevel(logging.DebugLevel)
			} else {
				logging.SetLevel(logging.WarnLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newInspectCommand())

	return rootCmd
}
