package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cuetrack/cuetrack/analysis"
)

func newAnalyzeCommand() *cobra.Command {
	var outputPath string
	params := analysis.DefaultParams()

	cmd := &cobra.Command{
		Use:   "analyze <audio-file>",
		Short: "Analyze an audio file and write the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]

			if _, err := os.Stat(inputPath); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", inputPath)
				}
				return fmt.Errorf("stat input file: %w", err)
			}

			if outputPath == "" {
				outputPath = defaultOutputPath(inputPath)
			}

			result, err := analysis.NewAnalyzer().Analyze(inputPath, params)
			if err != nil {
				return err
			}

			if err := analysis.SaveAnalysis(result, outputPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Analysis written to %s\n\n", outputPath)
			printSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON path (default <input>_analysis.json)")
	cmd.Flags().IntVar(&params.BeatDivision, "beat-division", params.BeatDivision, "Keep every N-th beat in the trigger list")
	cmd.Flags().Float64Var(&params.MinOnsetInterval, "min-onset-interval", params.MinOnsetInterval, "Minimum spacing between kept onsets, seconds")

	return cmd
}

// defaultOutputPath derives the analysis output path from the input path by
// replacing the extension with _analysis.json
func defaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_analysis.json"
}

func printSummary(cmd *cobra.Command, result *analysis.AnalysisResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Duration:     %.2f s\n", result.Duration)
	fmt.Fprintf(out, "Sample rate:  %d Hz\n", result.SampleRate)
	fmt.Fprintf(out, "Tempo:        %.1f BPM (%d beats)\n", result.Tempo.BPM, result.Tempo.BeatCount)
	fmt.Fprintf(out, "Beat events:  %d\n", len(result.AnimationEvents.Beats))
	fmt.Fprintf(out, "Onsets:       %d\n", len(result.AnimationEvents.Onsets))
	fmt.Fprintf(out, "Sections:     %d\n", len(result.AnimationEvents.Sections))
	fmt.Fprintf(out, "Energy peaks: %d\n", len(result.AnimationEvents.EnergyPeaks))
	fmt.Fprintf(out, "Band frames:  %d\n", len(result.FrequencyBands.Times))
}
