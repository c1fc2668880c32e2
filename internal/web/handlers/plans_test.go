package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kozaktomas/book-planner/internal/book"
)

var errMock = errors.New("mock error")

func setupPlansTest() (*book.MemoryPlanStore, *PlansHandler) {
	store := book.NewMemoryPlanStore()
	return store, NewPlansHandler(store)
}

func planPhotos(count int) []book.PhotoRecord {
	photos := make([]book.PhotoRecord, 0, count)
	for i := 0; i < count; i++ {
		photos = append(photos, book.PhotoRecord{
			ID:           fmt.Sprintf("p%02d", i),
			QualityScore: 60 + i%30,
		})
	}
	return photos
}

func TestPlansCreate_Success(t *testing.T) {
	store, handler := setupPlansTest()
	req := jsonRequest(t, "POST", "/api/v1/plans", CreatePlanRequest{
		Title:  "Letní výlet",
		Photos: planPhotos(12),
	})
	recorder := httptest.NewRecorder()

	handler.Create(recorder, req)

	assertStatusCode(t, recorder, http.StatusCreated)
	var resp CreatePlanResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.Plan == nil {
		t.Fatal("expected a plan in response")
	}
	if resp.Plan.ID == "" {
		t.Error("expected a generated plan ID")
	}
	if resp.Plan.Slug != "letni-vylet" {
		t.Errorf("expected slug 'letni-vylet', got '%s'", resp.Plan.Slug)
	}
	if resp.Plan.PageCount%2 != 0 {
		t.Errorf("expected even page count, got %d", resp.Plan.PageCount)
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("fresh plan should have no warnings, got %v", resp.Warnings)
	}

	// Plan must be persisted.
	stored, err := store.GetPlan(context.Background(), resp.Plan.ID)
	if err != nil {
		t.Fatalf("plan was not persisted: %v", err)
	}
	if stored.PhotoCount != 12 {
		t.Errorf("expected 12 photos in stored plan, got %d", stored.PhotoCount)
	}
}

func TestPlansCreate_NoPhotos(t *testing.T) {
	_, handler := setupPlansTest()
	req := jsonRequest(t, "POST", "/api/v1/plans", CreatePlanRequest{Title: "Empty"})
	recorder := httptest.NewRecorder()

	handler.Create(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "at least one photo is required")
}

func TestPlansCreate_StoreError(t *testing.T) {
	store, handler := setupPlansTest()
	store.SaveError = errMock

	req := jsonRequest(t, "POST", "/api/v1/plans", CreatePlanRequest{
		Title:  "Broken",
		Photos: planPhotos(3),
	})
	recorder := httptest.NewRecorder()

	handler.Create(recorder, req)

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertJSONError(t, recorder, "saving plan")
}

func TestPlansGet_Success(t *testing.T) {
	store, handler := setupPlansTest()
	store.SavePlan(context.Background(), &book.BookLayoutPlan{ID: "plan-1", Title: "Test"})

	req := requestWithChiParams(
		httptest.NewRequest("GET", "/api/v1/plans/plan-1", nil),
		map[string]string{"id": "plan-1"},
	)
	recorder := httptest.NewRecorder()

	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var plan book.BookLayoutPlan
	parseJSONResponse(t, recorder, &plan)
	if plan.ID != "plan-1" {
		t.Errorf("expected plan-1, got '%s'", plan.ID)
	}
}

func TestPlansGet_NotFound(t *testing.T) {
	_, handler := setupPlansTest()
	req := requestWithChiParams(
		httptest.NewRequest("GET", "/api/v1/plans/missing", nil),
		map[string]string{"id": "missing"},
	)
	recorder := httptest.NewRecorder()

	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "plan not found")
}

func TestPlansList_NewestFirst(t *testing.T) {
	store, handler := setupPlansTest()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	store.SavePlan(context.Background(), &book.BookLayoutPlan{ID: "old", Title: "Old", CreatedAt: base})
	store.SavePlan(context.Background(), &book.BookLayoutPlan{ID: "new", Title: "New", CreatedAt: base.Add(time.Hour)})

	req := httptest.NewRequest("GET", "/api/v1/plans", nil)
	recorder := httptest.NewRecorder()

	handler.List(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var resp struct {
		Plans []book.BookLayoutPlan `json:"plans"`
		Count int                   `json:"count"`
	}
	parseJSONResponse(t, recorder, &resp)
	if resp.Count != 2 {
		t.Fatalf("expected 2 plans, got %d", resp.Count)
	}
	if resp.Plans[0].ID != "new" {
		t.Errorf("expected newest plan first, got '%s'", resp.Plans[0].ID)
	}
}

func TestPlansList_LimitParam(t *testing.T) {
	store, handler := setupPlansTest()
	for i := 0; i < 5; i++ {
		store.SavePlan(context.Background(), &book.BookLayoutPlan{ID: fmt.Sprintf("plan-%d", i)})
	}

	req := httptest.NewRequest("GET", "/api/v1/plans?limit=2", nil)
	recorder := httptest.NewRecorder()

	handler.List(recorder, req)

	var resp struct {
		Count int `json:"count"`
	}
	parseJSONResponse(t, recorder, &resp)
	if resp.Count != 2 {
		t.Errorf("expected limit of 2 plans, got %d", resp.Count)
	}
}

func TestPlansList_StoreError(t *testing.T) {
	store, handler := setupPlansTest()
	store.ListError = errMock

	req := httptest.NewRequest("GET", "/api/v1/plans", nil)
	recorder := httptest.NewRecorder()

	handler.List(recorder, req)

	assertStatusCode(t, recorder, http.StatusInternalServerError)
}

func TestPlansValidate_CleanPlan(t *testing.T) {
	_, handler := setupPlansTest()
	req := jsonRequest(t, "POST", "/api/v1/plans", CreatePlanRequest{
		Title:  "Valid",
		Photos: planPhotos(8),
	})
	recorder := httptest.NewRecorder()
	handler.Create(recorder, req)

	var created CreatePlanResponse
	parseJSONResponse(t, recorder, &created)

	req = requestWithChiParams(
		httptest.NewRequest("GET", "/api/v1/plans/"+created.Plan.ID+"/validate", nil),
		map[string]string{"id": created.Plan.ID},
	)
	recorder = httptest.NewRecorder()

	handler.Validate(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var resp struct {
		Valid bool `json:"valid"`
	}
	parseJSONResponse(t, recorder, &resp)
	if !resp.Valid {
		t.Error("freshly created plan should be valid")
	}
}

func TestPlansTemplates(t *testing.T) {
	_, handler := setupPlansTest()
	req := httptest.NewRequest("GET", "/api/v1/templates", nil)
	recorder := httptest.NewRecorder()

	handler.Templates(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var resp map[string]struct {
		SlotCount int `json:"slot_count"`
	}
	parseJSONResponse(t, recorder, &resp)
	if len(resp) != 8 {
		t.Errorf("expected 8 templates, got %d", len(resp))
	}
	if resp["gallery_6"].SlotCount != 6 {
		t.Errorf("expected gallery_6 to have 6 slots, got %d", resp["gallery_6"].SlotCount)
	}
}
