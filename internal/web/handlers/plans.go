package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/constants"
	"github.com/kozaktomas/book-planner/internal/layout"
)

// PlansHandler handles layout plan endpoints.
type PlansHandler struct {
	store book.PlanStore
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(store book.PlanStore) *PlansHandler {
	return &PlansHandler{store: store}
}

// CreatePlanRequest carries a curated photo sequence and an optional title.
type CreatePlanRequest struct {
	Title  string             `json:"title"`
	Photos []book.PhotoRecord `json:"photos"`
}

// CreatePlanResponse returns the stored plan and any validation warnings.
type CreatePlanResponse struct {
	Plan     *book.BookLayoutPlan       `json:"plan"`
	Warnings []layout.ValidationWarning `json:"warnings,omitempty"`
}

// Create lays out the submitted photos into book pages and persists the plan.
func (h *PlansHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	plan, err := layout.Plan(req.Photos)
	if err != nil {
		if errors.Is(err, book.ErrNoPhotos) {
			respondError(w, http.StatusBadRequest, "at least one photo is required")
			return
		}
		respondError(w, http.StatusInternalServerError, "layout failed")
		return
	}

	plan.ID = uuid.New().String()
	plan.Title = req.Title
	plan.Slug = book.Slugify(req.Title)

	if err := h.store.SavePlan(r.Context(), plan); err != nil {
		log.Printf("saving plan %s: %v", plan.ID, err)
		respondError(w, http.StatusInternalServerError, "saving plan")
		return
	}

	respondJSON(w, http.StatusCreated, CreatePlanResponse{
		Plan:     plan,
		Warnings: layout.ValidatePlan(plan),
	})
}

// Get returns a stored plan by ID.
func (h *PlansHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plan, err := h.store.GetPlan(r.Context(), id)
	if err != nil {
		if errors.Is(err, book.ErrPlanNotFound) {
			respondError(w, http.StatusNotFound, "plan not found")
			return
		}
		log.Printf("loading plan %s: %v", sanitizeForLog(id), err)
		respondError(w, http.StatusInternalServerError, "loading plan")
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// List returns stored plans, newest first.
func (h *PlansHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := constants.DefaultPlanListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	plans, err := h.store.ListPlans(r.Context(), limit)
	if err != nil {
		log.Printf("listing plans: %v", err)
		respondError(w, http.StatusInternalServerError, "listing plans")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"plans": plans,
		"count": len(plans),
	})
}

// Validate re-checks a stored plan and returns its warnings.
func (h *PlansHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plan, err := h.store.GetPlan(r.Context(), id)
	if err != nil {
		if errors.Is(err, book.ErrPlanNotFound) {
			respondError(w, http.StatusNotFound, "plan not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "loading plan")
		return
	}

	warnings := layout.ValidatePlan(plan)
	respondJSON(w, http.StatusOK, map[string]any{
		"plan_id":  plan.ID,
		"valid":    len(warnings) == 0,
		"warnings": warnings,
	})
}

// Templates returns the known page templates with slot counts and geometry.
func (h *PlansHandler) Templates(w http.ResponseWriter, r *http.Request) {
	templates := make(map[string]any)
	for name, count := range layout.Templates() {
		templates[name] = map[string]any{
			"slot_count": count,
			"slots":      layout.SlotGeometries(name),
		}
	}
	respondJSON(w, http.StatusOK, templates)
}
