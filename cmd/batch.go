package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/book-planner/internal/config"
)

var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Analyze a folder of photos in parallel",
	Long: `Runs the photo analyzer across every image in a folder using the
worker pool and prints the resulting records as JSON. Unreadable or
corrupt photos are reported on stderr and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().Int("concurrency", 0, "Number of analysis workers (default from config)")
	batchCmd.Flags().String("out", "", "Write the records to a file instead of stdout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	concurrency := mustGetInt(cmd, "concurrency")
	outPath := mustGetString(cmd, "out")

	cfg := config.Load()
	if concurrency <= 0 {
		concurrency = cfg.Pipeline.Workers
	}

	items, err := collectPhotos(dir)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no photos found in %s", dir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal...")
		cancel()
	}()

	photos, failures, err := analyzeAll(ctx, items, concurrency)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d photos:\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(os.Stderr, "  %s\n", f)
		}
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(photos)
}
