// Package constants provides shared constants used across the codebase.
package constants

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for job event channels
	EventChannelBuffer = 100
)

// File upload constants
const (
	// MaxUploadSize is the maximum upload size for analyze/batch requests in bytes (100MB)
	MaxUploadSize = 100 << 20
)

// Handler defaults
const (
	// DefaultPlanListLimit is the default number of stored plans returned by the list endpoint
	DefaultPlanListLimit = 100
)
