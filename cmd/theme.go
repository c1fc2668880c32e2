package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/book-planner/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme [hex-color]",
	Short: "Suggest a book theme for a dominant color",
	Long:  `Classifies a hex color (e.g. #FF5733) into a book theme mood: warm, cool, bw, or vintage.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	suggested, err := theme.SuggestTheme(args[0])
	if err != nil {
		return fmt.Errorf("classifying color: %w", err)
	}
	fmt.Println(suggested)
	return nil
}
