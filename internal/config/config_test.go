package config

import (
	"os"
	"testing"

	"github.com/kozaktomas/book-planner/internal/constants"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("PLANNER_WORKERS")
	os.Unsetenv("PLANNER_SUGGESTION_LIMIT")
	os.Unsetenv("PLANNER_BURST_WINDOW_SECONDS")
	os.Unsetenv("WEB_PORT")

	cfg := Load()

	if cfg.Pipeline.Workers != constants.DefaultWorkerPoolSize {
		t.Errorf("expected default workers %d, got %d", constants.DefaultWorkerPoolSize, cfg.Pipeline.Workers)
	}
	if cfg.Pipeline.SuggestionLimit != constants.DefaultSuggestionLimit {
		t.Errorf("expected default suggestion limit %d, got %d", constants.DefaultSuggestionLimit, cfg.Pipeline.SuggestionLimit)
	}
	if cfg.Dedupe.BurstWindowSeconds != constants.DefaultBurstWindowSeconds {
		t.Errorf("expected default burst window %d, got %d", constants.DefaultBurstWindowSeconds, cfg.Dedupe.BurstWindowSeconds)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Web.Port)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PLANNER_WORKERS", "16")
	t.Setenv("PLANNER_SUGGESTION_LIMIT", "40")
	t.Setenv("PLANNER_MAX_COLOR_DISTANCE", "45.5")
	t.Setenv("WEB_HOST", "0.0.0.0")
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("WEB_ALLOWED_ORIGINS", "https://books.example.com")

	cfg := Load()

	if cfg.Pipeline.Workers != 16 {
		t.Errorf("expected 16 workers, got %d", cfg.Pipeline.Workers)
	}
	if cfg.Pipeline.SuggestionLimit != 40 {
		t.Errorf("expected suggestion limit 40, got %d", cfg.Pipeline.SuggestionLimit)
	}
	if cfg.Dedupe.MaxColorDistance != 45.5 {
		t.Errorf("expected color distance 45.5, got %f", cfg.Dedupe.MaxColorDistance)
	}
	if cfg.Web.Host != "0.0.0.0" {
		t.Errorf("expected host '0.0.0.0', got '%s'", cfg.Web.Host)
	}
	if cfg.Web.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Web.Port)
	}
	if cfg.Web.AllowedOrigins != "https://books.example.com" {
		t.Errorf("unexpected allowed origins '%s'", cfg.Web.AllowedOrigins)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PLANNER_WORKERS", "invalid"},
		{"PLANNER_WORKERS", "-4"},
		{"PLANNER_WORKERS", "0"},
	}

	for _, tt := range tests {
		t.Setenv(tt.key, tt.value)
		cfg := Load()
		if cfg.Pipeline.Workers != constants.DefaultWorkerPoolSize {
			t.Errorf("%s=%s: expected fallback to %d, got %d",
				tt.key, tt.value, constants.DefaultWorkerPoolSize, cfg.Pipeline.Workers)
		}
	}
}

func TestLoad_InvalidFloatFallsBack(t *testing.T) {
	t.Setenv("PLANNER_MAX_COLOR_DISTANCE", "not-a-number")

	cfg := Load()

	if cfg.Dedupe.MaxColorDistance != constants.DefaultMaxColorDistance {
		t.Errorf("expected fallback to %f, got %f", constants.DefaultMaxColorDistance, cfg.Dedupe.MaxColorDistance)
	}
}
