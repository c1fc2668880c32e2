// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Quality scoring constants
const (
	// DefaultSharpnessPoints is the sharpness component used when no
	// sharpness measurement is available for a photo
	DefaultSharpnessPoints = 20.0

	// MinQualityScore is the minimum composite score considered print-safe
	MinQualityScore = 30

	// MinPrintWidth is the print-safe resolution floor for the longer side
	MinPrintWidth = 800

	// MinPrintHeight is the print-safe resolution floor for the shorter side
	MinPrintHeight = 600

	// SquareTolerance is the aspect-ratio tolerance for classifying a photo as square
	SquareTolerance = 0.02
)

// Duplicate detection constants
const (
	// DefaultBurstWindowSeconds is the max seconds between two shots to be
	// considered part of the same burst
	DefaultBurstWindowSeconds = 10

	// DefaultMaxColorDistance is the max Euclidean RGB distance (0-441)
	// between dominant colors of duplicate candidates
	DefaultMaxColorDistance = 60.0

	// DefaultAspectTolerance is the max aspect-ratio difference between
	// duplicate candidates
	DefaultAspectTolerance = 0.05

	// DefaultMaxHashDistance is the max Hamming distance between difference
	// hashes for two photos to count as near-identical
	DefaultMaxHashDistance = 10
)

// Selection constants
const (
	// DefaultSuggestionLimit is the default size of a curated photo subset
	DefaultSuggestionLimit = 60

	// FaceBoostPerFace is the suggestion-score bonus per detected face
	FaceBoostPerFace = 5

	// MaxFaceBoost caps the total face bonus on the suggestion score
	MaxFaceBoost = 20

	// SameColorPenalty is the diversity penalty for selecting a photo with
	// the same color mood as the previously selected one
	SameColorPenalty = 15.0

	// SameBurstPenalty is the diversity penalty for selecting a photo taken
	// within the burst window of the previously selected one
	SameBurstPenalty = 10.0
)

// Batch processing constants
const (
	// DefaultWorkerPoolSize is the default number of parallel analyzer workers
	DefaultWorkerPoolSize = 8

	// AnalysisMaxDimension is the max dimension (width or height) images are
	// downscaled to before sharpness, color and face analysis
	AnalysisMaxDimension = 256
)

// Layout planning constants
const (
	// CoverCandidateCount is how many leading photos are considered when
	// picking the cover image
	CoverCandidateCount = 5
)
