package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "book-planner",
	Short: "A CLI tool for turning photo collections into printable photo books",
	Long: `Book Planner analyzes a folder of photos, scores their quality, filters
near-duplicate shots, picks the best candidates, and lays them out into
book pages ready for print rendering.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
