package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozaktomas/book-planner/internal/analyzer"
	"github.com/kozaktomas/book-planner/internal/batch"
	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/config"
	"github.com/kozaktomas/book-planner/internal/constants"
)

// BatchHandler handles batch analysis endpoints.
type BatchHandler struct {
	config     *config.Config
	jobManager *JobManager
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(cfg *config.Config, jm *JobManager) *BatchHandler {
	return &BatchHandler{
		config:     cfg,
		jobManager: jm,
	}
}

// Start accepts a multipart upload of photos and starts an async analysis job.
// The response carries the job ID; progress streams via the events endpoint.
func (h *BatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["photos"]) == 0 {
		respondError(w, http.StatusBadRequest, "no photos uploaded")
		return
	}

	items, err := readUploads(r.MultipartForm.File["photos"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID := uuid.New().String()
	job := h.jobManager.CreateJob(jobID, len(items))

	// The cancel func must be in place before the handler returns, so a
	// cancel request racing the goroutine start still stops the job.
	ctx, cancel := context.WithCancel(context.Background())
	job.setCancel(cancel)

	go func() {
		defer cancel()
		h.runAnalysisJob(ctx, job, items)
	}()

	respondJSON(w, http.StatusAccepted, map[string]any{
		"job_id":       jobID,
		"total_photos": len(items),
		"status":       string(JobStatusPending),
	})
}

// readUploads drains multipart file headers into batch items, deduplicating
// filenames so repeated names stay addressable.
func readUploads(headers []*multipart.FileHeader) ([]batch.Item, error) {
	items := make([]batch.Item, 0, len(headers))
	seen := make(map[string]int, len(headers))

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("opening upload %s", header.Filename)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("reading upload %s", header.Filename)
		}

		id := header.Filename
		if n := seen[id]; n > 0 {
			id = fmt.Sprintf("%s#%d", id, n)
		}
		seen[header.Filename]++

		items = append(items, batch.Item{ID: id, Data: data})
	}
	return items, nil
}

// Status returns the status of an analysis job.
func (h *BatchHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	respondJSON(w, http.StatusOK, job.Snapshot())
}

// Events streams job events via SSE.
func (h *BatchHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			job := h.jobManager.GetJob(id)
			if job == nil {
				return nil
			}
			return job
		},
		func(job SSEJob) any {
			return job.Snapshot()
		},
	)
}

// Cancel cancels an analysis job.
func (h *BatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

// runAnalysisJob runs the batch analysis in the background.
func (h *BatchHandler) runAnalysisJob(ctx context.Context, job *AnalysisJob, items []batch.Item) {
	job.mu.Lock()
	job.Status = JobStatusRunning
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: "started", Message: "Batch analysis started"})

	coordinator, err := batch.New(h.config.Pipeline.Workers, func(_ context.Context, item batch.Item) (*book.PhotoRecord, error) {
		return analyzer.Analyze(item.Data, item.ID)
	})
	if err != nil {
		h.failJob(job, fmt.Sprintf("creating worker pool: %v", err))
		return
	}

	results, err := coordinator.Process(ctx, items, func(p batch.Progress) {
		job.mu.Lock()
		job.ProcessedPhotos = p.Completed
		if p.Err != nil {
			job.FailedPhotos++
		}
		job.mu.Unlock()

		job.SendEvent(JobEvent{
			Type:    "progress",
			Message: fmt.Sprintf("%d/%d photos analyzed", p.Completed, p.Total),
			Data: map[string]any{
				"completed": p.Completed,
				"total":     p.Total,
				"item_id":   p.ItemID,
			},
		})
	})
	if err != nil {
		h.failJob(job, fmt.Sprintf("batch analysis: %v", err))
		return
	}

	// Keep the output ordered by upload order.
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

	now := time.Now()
	job.mu.Lock()
	if job.Status != JobStatusCancelled {
		job.Status = JobStatusCompleted
	}
	job.CompletedAt = &now
	job.Result = &AnalysisResult{Photos: photos, Errors: failures}
	job.mu.Unlock()

	log.Printf("batch job %s finished: %d analyzed, %d failed", job.ID, len(photos), len(failures))
	job.SendEvent(JobEvent{Type: "completed", Message: "Batch analysis finished", Data: job.Result})
}

// failJob marks a job as failed and notifies listeners.
func (h *BatchHandler) failJob(job *AnalysisJob, message string) {
	now := time.Now()
	job.mu.Lock()
	job.Status = JobStatusFailed
	job.Error = message
	job.CompletedAt = &now
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: "failed", Message: message})
}
