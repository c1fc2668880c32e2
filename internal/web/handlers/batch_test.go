package handlers

import (
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func setupBatchTest() (*JobManager, *BatchHandler) {
	jm := NewJobManager()
	return jm, NewBatchHandler(testConfig(), jm)
}

// waitForJob polls until the job reaches a terminal state or the timeout hits.
func waitForJob(t *testing.T, jm *JobManager, jobID string) *AnalysisJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job := jm.GetJob(jobID)
		if job != nil && isJobTerminal(job.GetStatus()) {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return nil
}

func TestBatchStart_Success(t *testing.T) {
	jm, handler := setupBatchTest()
	req := multipartRequest(t, "/api/v1/batch", "photos", map[string][]byte{
		"one.png": testPNG(t, 60, 40, color.RGBA{R: 180, G: 60, B: 40, A: 255}),
		"two.png": testPNG(t, 40, 60, color.RGBA{R: 40, G: 90, B: 190, A: 255}),
	})
	recorder := httptest.NewRecorder()

	handler.Start(recorder, req)

	assertStatusCode(t, recorder, http.StatusAccepted)
	var resp map[string]any
	parseJSONResponse(t, recorder, &resp)
	jobID, _ := resp["job_id"].(string)
	if jobID == "" {
		t.Fatal("expected a job_id in response")
	}
	if resp["total_photos"] != float64(2) {
		t.Errorf("expected total_photos 2, got %v", resp["total_photos"])
	}

	job := waitForJob(t, jm, jobID)
	if job.GetStatus() != JobStatusCompleted {
		t.Fatalf("expected completed job, got %s (error: %s)", job.GetStatus(), job.Error)
	}
	if job.Result == nil || len(job.Result.Photos) != 2 {
		t.Fatalf("expected 2 analyzed photos, got %+v", job.Result)
	}
}

func TestBatchStart_CorruptPhotoIsolated(t *testing.T) {
	jm, handler := setupBatchTest()
	req := multipartRequest(t, "/api/v1/batch", "photos", map[string][]byte{
		"good.png": testPNG(t, 50, 50, color.RGBA{R: 120, G: 120, B: 120, A: 255}),
		"bad.jpg":  []byte("not an image at all"),
	})
	recorder := httptest.NewRecorder()

	handler.Start(recorder, req)

	assertStatusCode(t, recorder, http.StatusAccepted)
	var resp map[string]any
	parseJSONResponse(t, recorder, &resp)
	jobID := resp["job_id"].(string)

	job := waitForJob(t, jm, jobID)
	if job.GetStatus() != JobStatusCompleted {
		t.Fatalf("one corrupt photo must not fail the job, got %s", job.GetStatus())
	}
	if len(job.Result.Photos) != 1 {
		t.Errorf("expected 1 analyzed photo, got %d", len(job.Result.Photos))
	}
	if len(job.Result.Errors) != 1 {
		t.Errorf("expected 1 per-photo error, got %v", job.Result.Errors)
	}
}

func TestBatchStart_NoPhotos(t *testing.T) {
	_, handler := setupBatchTest()
	req := multipartRequest(t, "/api/v1/batch", "other_field", map[string][]byte{
		"x.png": testPNG(t, 10, 10, color.RGBA{A: 255}),
	})
	recorder := httptest.NewRecorder()

	handler.Start(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "no photos uploaded")
}

func TestBatchStatus_NotFound(t *testing.T) {
	_, handler := setupBatchTest()
	req := requestWithChiParams(
		httptest.NewRequest("GET", "/api/v1/batch/missing", nil),
		map[string]string{"jobId": "missing"},
	)
	recorder := httptest.NewRecorder()

	handler.Status(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "job not found")
}

func TestBatchStatus_MissingID(t *testing.T) {
	_, handler := setupBatchTest()
	req := requestWithChiParams(
		httptest.NewRequest("GET", "/api/v1/batch/", nil),
		map[string]string{},
	)
	recorder := httptest.NewRecorder()

	handler.Status(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestBatchCancel_NotFound(t *testing.T) {
	_, handler := setupBatchTest()
	req := requestWithChiParams(
		httptest.NewRequest("DELETE", "/api/v1/batch/missing", nil),
		map[string]string{"jobId": "missing"},
	)
	recorder := httptest.NewRecorder()

	handler.Cancel(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
}

func TestBatchStart_CancelFuncSetBeforeReturn(t *testing.T) {
	jm, handler := setupBatchTest()
	req := multipartRequest(t, "/api/v1/batch", "photos", map[string][]byte{
		"one.png": testPNG(t, 60, 40, color.RGBA{R: 180, G: 60, B: 40, A: 255}),
	})
	recorder := httptest.NewRecorder()

	handler.Start(recorder, req)

	assertStatusCode(t, recorder, http.StatusAccepted)
	var resp map[string]any
	parseJSONResponse(t, recorder, &resp)
	jobID := resp["job_id"].(string)

	// A cancel request may arrive before the job goroutine is scheduled,
	// so the cancel func has to be installed by the time Start returns.
	job := jm.GetJob(jobID)
	job.mu.RLock()
	hasCancel := job.cancel != nil
	job.mu.RUnlock()
	if !hasCancel {
		t.Fatal("expected cancel func to be set when Start returns")
	}

	cancelReq := requestWithChiParams(
		httptest.NewRequest("DELETE", "/api/v1/batch/"+jobID, nil),
		map[string]string{"jobId": jobID},
	)
	cancelRecorder := httptest.NewRecorder()
	handler.Cancel(cancelRecorder, cancelReq)
	assertStatusCode(t, cancelRecorder, http.StatusOK)

	waitForJob(t, jm, jobID)
}

func TestAnalysisJobSnapshot_ConsistentUnderUpdates(t *testing.T) {
	job := NewJobManager().CreateJob("job-1", 50)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			job.mu.Lock()
			job.ProcessedPhotos++
			job.mu.Unlock()
		}
		now := time.Now()
		job.mu.Lock()
		job.Status = JobStatusCompleted
		job.CompletedAt = &now
		job.mu.Unlock()
	}()

	for i := 0; i < 200; i++ {
		snap := job.Snapshot()
		if snap.ProcessedPhotos < 0 || snap.ProcessedPhotos > 50 {
			t.Fatalf("snapshot saw processed_photos %d out of range", snap.ProcessedPhotos)
		}
		if snap.Status == JobStatusCompleted && snap.CompletedAt == nil {
			t.Fatal("completed snapshot is missing its completion time")
		}
	}
	<-done

	snap := job.Snapshot()
	if snap.ID != "job-1" || snap.Status != JobStatusCompleted || snap.ProcessedPhotos != 50 {
		t.Errorf("final snapshot = %+v", snap)
	}
}

func TestJobManager_Lifecycle(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob("job-1", 5)
	if job.Status != JobStatusPending {
		t.Errorf("new job status = %s, want pending", job.Status)
	}
	if jm.GetJob("job-1") == nil {
		t.Error("expected to find created job")
	}
	if len(jm.ListJobs()) != 1 {
		t.Errorf("expected 1 job, got %d", len(jm.ListJobs()))
	}

	jm.DeleteJob("job-1")
	if jm.GetJob("job-1") != nil {
		t.Error("expected job to be deleted")
	}
}

func TestEventBroadcaster_ListenersReceiveEvents(t *testing.T) {
	var b EventBroadcaster
	ch := b.AddListener()

	b.SendEvent(JobEvent{Type: "progress", Message: "halfway"})

	select {
	case event := <-ch:
		if event.Type != "progress" || event.Message != "halfway" {
			t.Errorf("unexpected event %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("listener did not receive event")
	}

	b.RemoveListener(ch)
	if _, open := <-ch; open {
		t.Error("expected channel to be closed after removal")
	}
}
