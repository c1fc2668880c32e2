// Package batch runs photo analysis jobs across a bounded worker pool with
// per-item progress reporting.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/constants"
)

// Item is a single unit of work: an opaque payload keyed by a caller-chosen
// unique ID.
type Item struct {
	ID   string
	Data []byte
}

// Result is the outcome for one item. Exactly one of Record and Err is set.
type Result struct {
	ID     string
	Record *book.PhotoRecord
	Err    error
}

// Progress is reported once per completed item, in completion order.
type Progress struct {
	Completed int
	Total     int
	ItemID    string
	Err       error
}

// WorkFunc processes one item's payload into a photo record.
type WorkFunc func(ctx context.Context, item Item) (*book.PhotoRecord, error)

// Coordinator fans items out to a fixed number of workers.
type Coordinator struct {
	workers int
	work    WorkFunc
}

// New creates a coordinator with the given pool size. A non-positive size
// fails with a ConfigurationError.
func New(workers int, work WorkFunc) (*Coordinator, error) {
	if workers <= 0 {
		return nil, &book.ConfigurationError{
			Field:  "workers",
			Reason: fmt.Sprintf("pool size must be positive, got %d", workers),
		}
	}
	if work == nil {
		return nil, &book.ConfigurationError{Field: "work", Reason: "work function is required"}
	}
	return &Coordinator{workers: workers, work: work}, nil
}

// DefaultWorkers is the pool size used when no override is configured.
func DefaultWorkers() int {
	return constants.DefaultWorkerPoolSize
}

// Process runs all items through the pool and returns a result per item ID.
// One item failing never stops the others; failures come back as per-item
// results with Err set. onProgress (optional) is called exactly once per
// item, serialized, as items complete.
//
// Cancelling the context stops new work from starting; items not yet started
// complete with the context error. Items already in flight run to completion.
func (c *Coordinator) Process(ctx context.Context, items []Item, onProgress func(Progress)) (map[string]Result, error) {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			return nil, &book.ConfigurationError{
				Field:  "items",
				Reason: fmt.Sprintf("duplicate item id %q", item.ID),
			}
		}
		seen[item.ID] = true
	}

	results := make(map[string]Result, len(items))
	if len(items) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	completed := 0

	finish := func(res Result) {
		mu.Lock()
		defer mu.Unlock()
		results[res.ID] = res
		completed++
		if onProgress != nil {
			onProgress(Progress{
				Completed: completed,
				Total:     len(items),
				ItemID:    res.ID,
				Err:       res.Err,
			})
		}
	}

	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup

	for _, item := range items {
		wg.Add(1)
		go func(it Item) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				finish(Result{ID: it.ID, Err: err})
				return
			}

			record, err := c.work(ctx, it)
			finish(Result{ID: it.ID, Record: record, Err: err})
		}(item)
	}

	wg.Wait()
	return results, nil
}
