// Package selector curates a recommended photo subset when a book holds
// more photos than fit comfortably. Ranking balances quality against visual
// and temporal diversity.
package selector

import (
	"time"

	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/constants"
	"github.com/kozaktomas/book-planner/internal/theme"
)

// candidate pairs a photo with its precomputed ranking inputs.
type candidate struct {
	photo book.PhotoRecord
	index int // original position, the stable tie-breaker
	base  float64
	mood  book.Theme
}

// Suggest returns an ordered subset of at most limit photos. Duplicates are
// excluded up front. If the remaining pool already fits the limit it is
// returned unchanged, so suggesting from a curated pool is a no-op.
// Suggest is deterministic: equal inputs produce equal outputs.
func Suggest(photos []book.PhotoRecord, limit int) ([]book.PhotoRecord, error) {
	if limit <= 0 {
		return nil, &book.ConfigurationError{Field: "limit", Reason: "must be positive"}
	}

	pool := make([]candidate, 0, len(photos))
	for i, p := range photos {
		if p.IsDuplicate {
			continue
		}
		mood, err := theme.SuggestTheme(p.DominantColor)
		if err != nil {
			mood = "" // unclassifiable colors never trigger the diversity penalty
		}
		pool = append(pool, candidate{
			photo: p,
			index: i,
			base:  suggestionScore(&p),
			mood:  mood,
		})
	}

	// An empty pool is a benign case, not a fault.
	if len(pool) == 0 {
		return []book.PhotoRecord{}, nil
	}

	// Already curated: hand the pool back in input order.
	if len(pool) <= limit {
		out := make([]book.PhotoRecord, len(pool))
		for i, c := range pool {
			out[i] = c.photo
		}
		return out, nil
	}

	return pick(pool, limit), nil
}

// pick greedily selects the best remaining candidate, applying a diversity
// penalty against the previously selected photo so runs of near-identical
// shots do not crowd out variety.
func pick(pool []candidate, limit int) []book.PhotoRecord {
	selected := make([]book.PhotoRecord, 0, limit)
	used := make([]bool, len(pool))
	var last *candidate

	for len(selected) < limit {
		bestIdx := -1
		bestScore := 0.0
		for i := range pool {
			if used[i] {
				continue
			}
			score := pool[i].base - diversityPenalty(&pool[i], last)
			if bestIdx == -1 || score > bestScore {
				bestIdx = i
				bestScore = score
			}
			// Ties fall through to the earlier original index, which is
			// always visited first.
		}
		if bestIdx == -1 {
			break
		}
		used[bestIdx] = true
		selected = append(selected, pool[bestIdx].photo)
		last = &pool[bestIdx]
	}

	return selected
}

// suggestionScore is the base ranking score: quality plus a capped bonus for
// photos with people in them.
func suggestionScore(p *book.PhotoRecord) float64 {
	score := float64(p.QualityScore)
	if p.HasFaces {
		boost := float64(p.FaceCount * constants.FaceBoostPerFace)
		if boost > constants.MaxFaceBoost {
			boost = constants.MaxFaceBoost
		}
		score += boost
	}
	return score
}

// diversityPenalty discourages selecting a photo that looks like the one
// just selected: same color mood, or taken within the same burst window.
func diversityPenalty(c, last *candidate) float64 {
	if last == nil {
		return 0
	}
	penalty := 0.0
	if c.mood != "" && c.mood == last.mood {
		penalty += constants.SameColorPenalty
	}
	if c.photo.DateTaken != nil && last.photo.DateTaken != nil {
		delta := c.photo.DateTaken.Sub(*last.photo.DateTaken)
		if delta < 0 {
			delta = -delta
		}
		if delta <= constants.DefaultBurstWindowSeconds*time.Second {
			penalty += constants.SameBurstPenalty
		}
	}
	return penalty
}
