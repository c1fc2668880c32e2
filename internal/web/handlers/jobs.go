package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/constants"
)

// JobStatus represents the status of an async job.
type JobStatus string

// JobStatus constants define the lifecycle states of an async job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// AnalysisJob represents an async batch analysis job.
type AnalysisJob struct {
	EventBroadcaster

	ID              string          `json:"id"`
	Status          JobStatus       `json:"status"`
	TotalPhotos     int             `json:"total_photos"`
	ProcessedPhotos int             `json:"processed_photos"`
	FailedPhotos    int             `json:"failed_photos"`
	Error           string          `json:"error,omitempty"`
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	Result          *AnalysisResult `json:"result,omitempty"`
}

// AnalysisResult holds the outcome of a finished batch analysis.
type AnalysisResult struct {
	Photos []book.PhotoRecord `json:"photos"`
	Errors []string           `json:"errors,omitempty"`
}

// JobSnapshot is a point-in-time copy of a job, safe to serialize while the
// job keeps running.
type JobSnapshot struct {
	ID              string          `json:"id"`
	Status          JobStatus       `json:"status"`
	TotalPhotos     int             `json:"total_photos"`
	ProcessedPhotos int             `json:"processed_photos"`
	FailedPhotos    int             `json:"failed_photos"`
	Error           string          `json:"error,omitempty"`
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	Result          *AnalysisResult `json:"result,omitempty"`
}

// Snapshot returns a consistent copy of the job fields (implements SSEJob).
func (j *AnalysisJob) Snapshot() JobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return JobSnapshot{
		ID:              j.ID,
		Status:          j.Status,
		TotalPhotos:     j.TotalPhotos,
		ProcessedPhotos: j.ProcessedPhotos,
		FailedPhotos:    j.FailedPhotos,
		Error:           j.Error,
		StartedAt:       j.StartedAt,
		CompletedAt:     j.CompletedAt,
		Result:          j.Result,
	}
}

// GetStatus returns the current job status (implements SSEJob).
func (j *AnalysisJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// Cancel cancels the analysis job.
func (j *AnalysisJob) Cancel() {
	j.EventBroadcaster.Cancel()
	j.mu.Lock()
	j.Status = JobStatusCancelled
	j.mu.Unlock()
}

// JobEvent represents an event from a job.
type JobEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// EventBroadcaster provides listener management and event broadcasting for async jobs.
// Embed this in job structs to get AddListener, RemoveListener, and SendEvent methods.
type EventBroadcaster struct {
	cancel    context.CancelFunc
	listeners []chan JobEvent
	mu        sync.RWMutex
}

// AddListener adds an event listener.
func (b *EventBroadcaster) AddListener() chan JobEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan JobEvent, constants.EventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *EventBroadcaster) RemoveListener(ch chan JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// SendEvent sends an event to all listeners.
func (b *EventBroadcaster) SendEvent(event JobEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// setCancel installs the context cancel func for the job. Must be called
// before the job goroutine starts so a cancel request can never miss it.
func (b *EventBroadcaster) setCancel(cancel context.CancelFunc) {
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()
}

// Cancel cancels the job via context and sends a cancelled event.
func (b *EventBroadcaster) Cancel() {
	b.mu.RLock()
	cancel := b.cancel
	b.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
	b.SendEvent(JobEvent{Type: "cancelled", Message: "Job cancelled by user"})
}

// SSEJob is the interface required by streamSSEEvents to stream job events via SSE.
type SSEJob interface {
	AddListener() chan JobEvent
	RemoveListener(ch chan JobEvent)
	GetStatus() JobStatus
	Snapshot() JobSnapshot
}

// JobManager manages async jobs.
type JobManager struct {
	jobs map[string]*AnalysisJob
	mu   sync.RWMutex
}

// NewJobManager creates a new job manager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*AnalysisJob),
	}
}

// CreateJob creates a new analysis job.
func (m *JobManager) CreateJob(id string, totalPhotos int) *AnalysisJob {
	job := &AnalysisJob{
		ID:          id,
		Status:      JobStatusPending,
		TotalPhotos: totalPhotos,
		StartedAt:   time.Now(),
	}

	m.mu.Lock()
	m.jobs[id] = job
	m.mu.Unlock()

	return job
}

// GetJob retrieves a job by ID.
func (m *JobManager) GetJob(id string) *AnalysisJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// DeleteJob removes a job.
func (m *JobManager) DeleteJob(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}

// ListJobs returns all jobs.
func (m *JobManager) ListJobs() []*AnalysisJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]*AnalysisJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}
