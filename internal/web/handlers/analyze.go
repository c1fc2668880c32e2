package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/kozaktomas/book-planner/internal/analyzer"
	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/constants"
	"github.com/kozaktomas/book-planner/internal/theme"
)

// AnalyzeHandler handles single-photo analysis endpoints.
type AnalyzeHandler struct{}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler() *AnalyzeHandler {
	return &AnalyzeHandler{}
}

// Analyze accepts a multipart photo upload and returns its full analysis
// record: dimensions, quality score, color palette, face and sharpness
// signals.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing photo file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "reading upload")
		return
	}

	record, err := analyzer.Analyze(data, header.Filename)
	if err != nil {
		var decodeErr *book.DecodeError
		if errors.As(err, &decodeErr) {
			respondError(w, http.StatusUnprocessableEntity, "unsupported or corrupt image")
			return
		}
		log.Printf("analyze failed for %s: %v", sanitizeForLog(header.Filename), err)
		respondError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// ThemeRequest is the payload for a theme suggestion.
type ThemeRequest struct {
	Color string `json:"color"`
}

// ThemeResponse pairs the input color with its suggested theme.
type ThemeResponse struct {
	Color string     `json:"color"`
	Theme book.Theme `json:"theme"`
}

// SuggestTheme classifies a dominant color into one of the book theme moods.
func (h *AnalyzeHandler) SuggestTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Color == "" {
		respondError(w, http.StatusBadRequest, "color is required")
		return
	}

	suggested, err := theme.SuggestTheme(req.Color)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid color")
		return
	}

	respondJSON(w, http.StatusOK, ThemeResponse{Color: req.Color, Theme: suggested})
}
