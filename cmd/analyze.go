package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/book-planner/internal/analyzer"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file...]",
	Short: "Analyze photos and print their quality records",
	Long: `Analyzes each photo file and prints its record: dimensions, quality
score, sharpness, dominant colors, face count, and perceptual hash.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Bool("json", false, "Print full records as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	asJSON := mustGetBool(cmd, "json")

	records := make([]any, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		record, err := analyzer.Analyze(data, filepath.Base(path))
		if err != nil {
			return fmt.Errorf("analyzing %s: %w", path, err)
		}

		if asJSON {
			records = append(records, record)
			continue
		}

		fmt.Printf("%s\n", record.ID)
		fmt.Printf("  Size:       %dx%d (%s)\n", record.Width, record.Height, record.Orientation)
		fmt.Printf("  Quality:    %d/100\n", record.QualityScore)
		if record.SharpnessScore != nil {
			fmt.Printf("  Sharpness:  %.1f\n", *record.SharpnessScore)
		}
		fmt.Printf("  Faces:      %d\n", record.FaceCount)
		fmt.Printf("  Color:      %s\n", record.DominantColor)
		fmt.Printf("  Hash:       %s\n", record.DHash)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return nil
}
