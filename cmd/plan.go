package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/book-planner/internal/analyzer"
	"github.com/kozaktomas/book-planner/internal/batch"
	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/config"
	"github.com/kozaktomas/book-planner/internal/duplicates"
	"github.com/kozaktomas/book-planner/internal/layout"
	"github.com/kozaktomas/book-planner/internal/selector"
)

var planCmd = &cobra.Command{
	Use:   "plan [directory]",
	Short: "Build a photo book layout plan from a folder of photos",
	Long: `Runs the full planning pipeline on a folder of photos:
analyze quality and colors, filter near-duplicate shots, pick the best
candidates, and lay them out into book pages. The resulting plan is
written as JSON (or YAML) to stdout or a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("title", "", "Book title (used for the plan slug)")
	planCmd.Flags().Int("limit", 0, "Maximum photos in the book (default from config)")
	planCmd.Flags().Int("concurrency", 0, "Number of analysis workers (default from config)")
	planCmd.Flags().String("format", "json", "Output format: json or yaml")
	planCmd.Flags().String("out", "", "Write the plan to a file instead of stdout")
}

// imageExtensions lists the file extensions picked up from the input folder.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

func runPlan(cmd *cobra.Command, args []string) error {
	dir := args[0]
	title := mustGetString(cmd, "title")
	limit := mustGetInt(cmd, "limit")
	concurrency := mustGetInt(cmd, "concurrency")
	format := mustGetString(cmd, "format")
	outPath := mustGetString(cmd, "out")

	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}

	cfg := config.Load()
	if limit <= 0 {
		limit = cfg.Pipeline.SuggestionLimit
	}
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

	// Set up context with signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C
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
	if len(photos) == 0 {
		return fmt.Errorf("none of the %d photos could be analyzed", len(items))
	}

	// Chronological order makes bursts adjacent and books tell a story.
	sort.SliceStable(photos, func(i, j int) bool {
		a, b := photos[i].DateTaken, photos[j].DateTaken
		if a == nil || b == nil {
			return a != nil
		}
		return a.Before(*b)
	})

	flagged := duplicates.Detect(photos, duplicates.Options{
		BurstWindow:      cfg.Dedupe.BurstWindow(),
		MaxColorDistance: cfg.Dedupe.MaxColorDistance,
		AspectTolerance:  cfg.Dedupe.AspectTolerance,
		MaxHashDistance:  cfg.Dedupe.MaxHashDistance,
	})

	selected, err := selector.Suggest(flagged, limit)
	if err != nil {
		return fmt.Errorf("selecting photos: %w", err)
	}
	if len(selected) == 0 {
		return fmt.Errorf("no photos left after duplicate filtering")
	}

	plan, err := layout.Plan(selected)
	if err != nil {
		return fmt.Errorf("planning layout: %w", err)
	}
	plan.ID = uuid.New().String()
	plan.Title = title
	plan.Slug = book.Slugify(title)

	if warnings := layout.ValidatePlan(plan); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: page %d: %s\n", w.PageNumber, w.Message)
		}
	}

	fmt.Fprintf(os.Stderr, "Planned %d pages from %d photos (%d analyzed, %d selected)\n",
		plan.PageCount, len(items), len(photos), len(selected))

	return writePlan(plan, format, outPath)
}

// collectPhotos lists image files in the directory, sorted by name.
func collectPhotos(dir string) ([]batch.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var items []batch.Item
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		items = append(items, batch.Item{ID: entry.Name(), Data: data})
	}
	return items, nil
}

// analyzeAll runs the photo analysis across the worker pool with a progress bar.
func analyzeAll(ctx context.Context, items []batch.Item, concurrency int) ([]book.PhotoRecord, []string, error) {
	coordinator, err := batch.New(concurrency, func(_ context.Context, item batch.Item) (*book.PhotoRecord, error) {
		return analyzer.Analyze(item.Data, item.ID)
	})
	if err != nil {
		return nil, nil, err
	}

	bar := progressbar.NewOptions(len(items),
		progressbar.OptionSetDescription("Analyzing photos"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	results, err := coordinator.Process(ctx, items, func(batch.Progress) {
		bar.Add(1)
	})
	if err != nil {
		return nil, nil, err
	}
	fmt.Fprintln(os.Stderr)

	photos := make([]book.PhotoRecord, 0, len(items))
	var failures []string
	for _, item := range items {
		res := results[item.ID]
		if res.Err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", item.ID, res.Err))
			continue
		}
		photos = append(photos, *res.Record)
	}
	return photos, failures, nil
}

// writePlan serializes the plan to the requested format and destination.
func writePlan(plan *book.BookLayoutPlan, format, outPath string) error {
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(plan)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}
