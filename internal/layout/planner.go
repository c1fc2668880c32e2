package layout

import (
	"time"

	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/constants"
)

// Plan lays out the given photo sequence into book pages. The input order is
// preserved (typically chronological or curated order from the selector).
//
// The first page is always a hero cover holding the best photo among the
// first few. Remaining photos are consumed in template-sized groups with a
// variety rule that avoids repeating a template on consecutive pages. If the
// resulting page count is odd, one trailing blank page is appended so the
// book can be bound in sheet pairs.
//
// The input slice is never mutated; annotated photo copies (used_in_layout,
// sort_order) travel inside the returned plan. Planning an empty book fails
// with book.ErrNoPhotos.
func Plan(photos []book.PhotoRecord) (*book.BookLayoutPlan, error) {
	if len(photos) == 0 {
		return nil, book.ErrNoPhotos
	}

	annotated := make([]book.PhotoRecord, len(photos))
	copy(annotated, photos)
	for i := range annotated {
		annotated[i].UsedInLayout = false
		annotated[i].SortOrder = 0
	}

	coverIdx := pickCover(annotated)

	// Body order: input order with the cover pulled out.
	order := make([]int, 0, len(annotated))
	order = append(order, coverIdx)
	for i := range annotated {
		if i != coverIdx {
			order = append(order, i)
		}
	}

	var pages []book.Page
	sortOrder := 0

	consume := func(template string, indexes []int) {
		ids := make([]string, len(indexes))
		for i, idx := range indexes {
			sortOrder++
			annotated[idx].UsedInLayout = true
			annotated[idx].SortOrder = sortOrder
			ids[i] = annotated[idx].ID
		}
		pages = append(pages, book.Page{
			PageNumber: len(pages) + 1,
			Template:   template,
			PhotoIDs:   ids,
			LayoutData: SlotGeometries(template)[:len(ids)],
		})
	}

	// Cover page.
	consume(TemplateHero, order[:1])
	queue := order[1:]
	prev := TemplateHero

	// Body pagination.
	for len(queue) > 0 {
		template := pickTemplate(len(queue), prev)
		n := SlotCount(template)
		if n > len(queue) {
			n = len(queue)
		}
		consume(template, queue[:n])
		queue = queue[n:]
		prev = template
	}

	// Print binding needs front/back sheet pairs.
	if len(pages)%2 == 1 {
		pages = append(pages, book.Page{
			PageNumber: len(pages) + 1,
			Template:   TemplateHero,
			PhotoIDs:   []string{},
		})
	}

	return &book.BookLayoutPlan{
		Pages:      pages,
		Photos:     annotated,
		PhotoCount: len(annotated),
		PageCount:  len(pages),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// pickCover returns the index of the highest-quality photo among the first
// few, preferring the earliest on ties.
func pickCover(photos []book.PhotoRecord) int {
	n := constants.CoverCandidateCount
	if n > len(photos) {
		n = len(photos)
	}
	best := 0
	for i := 1; i < n; i++ {
		if photos[i].QualityScore > photos[best].QualityScore {
			best = i
		}
	}
	return best
}
