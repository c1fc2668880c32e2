package config

import (
	"os"
	"strconv"
	"time"

	"github.com/kozaktomas/book-planner/internal/constants"
)

type Config struct {
	Pipeline PipelineConfig
	Dedupe   DedupeConfig
	Web      WebConfig
}

type PipelineConfig struct {
	Workers         int // worker pool size for batch analysis
	SuggestionLimit int // default photo count for book suggestions
}

type DedupeConfig struct {
	BurstWindowSeconds int     // max seconds between shots to count as a burst
	MaxColorDistance   float64 // dominant color RGB distance threshold
	MaxHashDistance    int     // perceptual hash Hamming distance threshold
	AspectTolerance    float64 // relative aspect ratio tolerance
}

// BurstWindow returns the burst window as a duration.
func (c *DedupeConfig) BurstWindow() time.Duration {
	return time.Duration(c.BurstWindowSeconds) * time.Second
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins string // comma-separated list, empty allows same-origin only
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Workers:         envInt("PLANNER_WORKERS", constants.DefaultWorkerPoolSize),
			SuggestionLimit: envInt("PLANNER_SUGGESTION_LIMIT", constants.DefaultSuggestionLimit),
		},
		Dedupe: DedupeConfig{
			BurstWindowSeconds: envInt("PLANNER_BURST_WINDOW_SECONDS", constants.DefaultBurstWindowSeconds),
			MaxColorDistance:   envFloat("PLANNER_MAX_COLOR_DISTANCE", constants.DefaultMaxColorDistance),
			MaxHashDistance:    envInt("PLANNER_MAX_HASH_DISTANCE", constants.DefaultMaxHashDistance),
			AspectTolerance:    envFloat("PLANNER_ASPECT_TOLERANCE", constants.DefaultAspectTolerance),
		},
		Web: WebConfig{
			Host:           os.Getenv("WEB_HOST"),
			Port:           envInt("WEB_PORT", 8080),
			AllowedOrigins: os.Getenv("WEB_ALLOWED_ORIGINS"),
		},
	}
}
