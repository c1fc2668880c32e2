// Package duplicates flags near-duplicate photos (burst shots, re-takes)
// within a single book's photo set. It only annotates records; exclusion
// decisions belong to the selector or the caller.
package duplicates

import (
	"math"
	"time"

	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/constants"
	"github.com/kozaktomas/book-planner/internal/fingerprint"
	"github.com/kozaktomas/book-planner/internal/theme"
)

// Options holds the tunable similarity thresholds. The exact values are a
// heuristic choice, so they are configuration rather than hard-coded.
type Options struct {
	// BurstWindow is the max time between two shots of the same burst.
	BurstWindow time.Duration
	// MaxColorDistance is the max Euclidean RGB distance between dominant colors.
	MaxColorDistance float64
	// AspectTolerance is the max aspect-ratio difference.
	AspectTolerance float64
	// MaxHashDistance is the max Hamming distance between difference hashes.
	MaxHashDistance int
}

// DefaultOptions returns the default detection thresholds.
func DefaultOptions() Options {
	return Options{
		BurstWindow:      constants.DefaultBurstWindowSeconds * time.Second,
		MaxColorDistance: constants.DefaultMaxColorDistance,
		AspectTolerance:  constants.DefaultAspectTolerance,
		MaxHashDistance:  constants.DefaultMaxHashDistance,
	}
}

// Detect clusters near-duplicate photos and returns a fresh copy of the
// input with is_duplicate / duplicate_of assigned. Within each cluster the
// canonical photo is the one with the highest quality score (ties broken by
// earliest date taken, then by input order); all others point at it. The
// input is never mutated and the result is deterministic, so running Detect
// twice yields identical assignments.
func Detect(photos []book.PhotoRecord, opts Options) []book.PhotoRecord {
	out := make([]book.PhotoRecord, len(photos))
	copy(out, photos)

	// Reset any previous assignment so detection is idempotent.
	for i := range out {
		out[i].IsDuplicate = false
		out[i].DuplicateOf = ""
	}

	// Union-find over all pairs. Book photo sets are small enough that the
	// quadratic scan is fine.
	parent := make([]int, len(out))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if similar(&out[i], &out[j], opts) {
				union(i, j)
			}
		}
	}

	clusters := make(map[int][]int)
	for i := range out {
		root := find(i)
		clusters[root] = append(clusters[root], i)
	}

	for _, members := range clusters {
		if len(members) < 2 {
			continue
		}
		canonical := pickCanonical(out, members)
		for _, idx := range members {
			if idx == canonical {
				continue
			}
			out[idx].IsDuplicate = true
			out[idx].DuplicateOf = out[canonical].ID
		}
	}

	return out
}

// similar reports whether two photos look like the same shot. When both
// carry timestamps they must fall within the burst window; the visual match
// is either a close difference hash or matching dominant color plus aspect
// ratio. Without timestamps all three signals must agree.
func similar(a, b *book.PhotoRecord, opts Options) bool {
	hashClose := a.DHashBits != 0 && b.DHashBits != 0 &&
		fingerprint.Similar(a.DHashBits, b.DHashBits, opts.MaxHashDistance)
	colorClose := colorDistance(a.DominantColor, b.DominantColor) <= opts.MaxColorDistance
	aspectClose := math.Abs(a.AspectRatio-b.AspectRatio) <= opts.AspectTolerance

	if a.DateTaken != nil && b.DateTaken != nil {
		delta := a.DateTaken.Sub(*b.DateTaken)
		if delta < 0 {
			delta = -delta
		}
		if delta > opts.BurstWindow {
			return false
		}
		return hashClose || (colorClose && aspectClose)
	}

	return hashClose && colorClose && aspectClose
}

// pickCanonical returns the member index with the highest quality score,
// ties broken by earliest date taken, then by input order.
func pickCanonical(photos []book.PhotoRecord, members []int) int {
	best := members[0]
	for _, idx := range members[1:] {
		if better(&photos[idx], &photos[best]) {
			best = idx
		}
	}
	return best
}

func better(a, b *book.PhotoRecord) bool {
	if a.QualityScore != b.QualityScore {
		return a.QualityScore > b.QualityScore
	}
	switch {
	case a.DateTaken != nil && b.DateTaken != nil:
		if !a.DateTaken.Equal(*b.DateTaken) {
			return a.DateTaken.Before(*b.DateTaken)
		}
	case a.DateTaken != nil:
		return true
	case b.DateTaken != nil:
		return false
	}
	// Stable: earlier input order wins, and members are visited in order.
	return false
}

// colorDistance computes the Euclidean RGB distance between two hex colors.
// Unparseable colors are treated as maximally distant.
func colorDistance(hexA, hexB string) float64 {
	ra, ga, ba, errA := theme.ParseHex(hexA)
	rb, gb, bb, errB := theme.ParseHex(hexB)
	if errA != nil || errB != nil {
		return math.MaxFloat64
	}
	dr := float64(ra) - float64(rb)
	dg := float64(ga) - float64(gb)
	db := float64(ba) - float64(bb)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
