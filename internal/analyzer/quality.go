package analyzer

import (
	"math"

	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/constants"
)

// QualityScore computes the 0-100 composite print-suitability score:
//
//	resolution   0-40  (by megapixels)
//	sharpness    0-30  (measured, or a default when unavailable)
//	faces        0-10  (3 points per face, capped)
//	aspect ratio 0-10  (common print ratios score best)
//	file size    0-10  (typical camera JPEG sizes score best)
//
// The sum is capped at 100 and rounded.
func QualityScore(rec *book.PhotoRecord) int {
	score := resolutionPoints(rec.Width, rec.Height)

	if rec.SharpnessScore != nil {
		score += *rec.SharpnessScore / 100 * 30
	} else {
		score += constants.DefaultSharpnessPoints
	}

	if rec.HasFaces {
		score += math.Min(10, float64(rec.FaceCount)*3)
	}

	score += aspectPoints(rec.AspectRatio)
	score += fileSizePoints(rec.FileSize)

	return int(math.Round(math.Min(100, score)))
}

func resolutionPoints(width, height int) float64 {
	megapixels := float64(width) * float64(height) / 1_000_000
	switch {
	case megapixels >= 12:
		return 40
	case megapixels >= 8:
		return 35
	case megapixels >= 5:
		return 30
	case megapixels >= 3:
		return 20
	default:
		return 10
	}
}

func aspectPoints(ratio float64) float64 {
	switch {
	case ratio >= 0.75 && ratio <= 1.5:
		return 10
	case ratio >= 0.5 && ratio <= 2:
		return 5
	default:
		return 0
	}
}

func fileSizePoints(size int64) float64 {
	const mb = 1 << 20
	switch {
	case size >= 2*mb && size <= 20*mb:
		return 10
	case size >= 1*mb && size <= 30*mb:
		return 5
	default:
		return 0
	}
}

// MeetsMinimumQuality reports whether a photo is print-safe: its score must
// reach the quality floor and its resolution must reach the print floor,
// regardless of how high the score is.
func MeetsMinimumQuality(score, width, height int) bool {
	if score < constants.MinQualityScore {
		return false
	}
	longer, shorter := width, height
	if shorter > longer {
		longer, shorter = shorter, longer
	}
	return longer >= constants.MinPrintWidth && shorter >= constants.MinPrintHeight
}
