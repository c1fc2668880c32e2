package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/config"
	"github.com/kozaktomas/book-planner/internal/duplicates"
	"github.com/kozaktomas/book-planner/internal/selector"
)

// PipelineHandler handles the curation steps between analysis and layout:
// duplicate detection and book suggestion.
type PipelineHandler struct {
	config *config.Config
}

// NewPipelineHandler creates a new pipeline handler.
func NewPipelineHandler(cfg *config.Config) *PipelineHandler {
	return &PipelineHandler{config: cfg}
}

// DuplicatesRequest carries analyzed photo records to cluster.
type DuplicatesRequest struct {
	Photos []book.PhotoRecord `json:"photos"`
}

// DuplicatesResponse returns the records with duplicate flags set.
type DuplicatesResponse struct {
	Photos         []book.PhotoRecord `json:"photos"`
	DuplicateCount int                `json:"duplicate_count"`
}

// FindDuplicates clusters near-identical photos (bursts, re-shoots) and marks
// every photo except each cluster's best shot as a duplicate.
func (h *PipelineHandler) FindDuplicates(w http.ResponseWriter, r *http.Request) {
	var req DuplicatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	opts := duplicates.Options{
		BurstWindow:      h.config.Dedupe.BurstWindow(),
		MaxColorDistance: h.config.Dedupe.MaxColorDistance,
		AspectTolerance:  h.config.Dedupe.AspectTolerance,
		MaxHashDistance:  h.config.Dedupe.MaxHashDistance,
	}

	flagged := duplicates.Detect(req.Photos, opts)
	count := 0
	for _, p := range flagged {
		if p.IsDuplicate {
			count++
		}
	}

	respondJSON(w, http.StatusOK, DuplicatesResponse{Photos: flagged, DuplicateCount: count})
}

// SuggestRequest carries the photo pool and target book size.
type SuggestRequest struct {
	Photos []book.PhotoRecord `json:"photos"`
	Limit  int                `json:"limit"`
}

// SuggestResponse returns the curated photo selection.
type SuggestResponse struct {
	Photos []book.PhotoRecord `json:"photos"`
}

// Suggest picks the best photos for a book, balancing quality against color
// and burst diversity. A missing limit falls back to the configured default.
func (h *PipelineHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if req.Limit == 0 {
		req.Limit = h.config.Pipeline.SuggestionLimit
	}

	selected, err := selector.Suggest(req.Photos, req.Limit)
	if err != nil {
		var cfgErr *book.ConfigurationError
		if errors.As(err, &cfgErr) {
			respondError(w, http.StatusBadRequest, cfgErr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "suggestion failed")
		return
	}

	respondJSON(w, http.StatusOK, SuggestResponse{Photos: selected})
}
