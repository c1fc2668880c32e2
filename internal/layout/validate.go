package layout

import (
	"fmt"

	"github.com/kozaktomas/book-planner/internal/book"
)

// ValidationWarning describes an integrity issue found in a layout plan.
type ValidationWarning struct {
	PageNumber int    `json:"page_number"`
	SlotIndex  int    `json:"slot_index"`
	Message    string `json:"message"`
	Severity   string `json:"severity"` // "error" or "warning"
}

// ValidatePlan checks a produced plan for integrity issues: sequential page
// numbers, an even page count, slot overflow, out-of-bounds geometry and
// photos placed more than once. A freshly planned book yields no warnings.
func ValidatePlan(plan *book.BookLayoutPlan) []ValidationWarning {
	var warnings []ValidationWarning

	if len(plan.Pages)%2 != 0 {
		warnings = append(warnings, ValidationWarning{
			Message:  fmt.Sprintf("page count %d is odd; print binding needs sheet pairs", len(plan.Pages)),
			Severity: "error",
		})
	}

	seen := make(map[string]int)
	for i, page := range plan.Pages {
		if page.PageNumber != i+1 {
			warnings = append(warnings, ValidationWarning{
				PageNumber: page.PageNumber,
				Message:    fmt.Sprintf("page number %d at position %d; expected %d", page.PageNumber, i, i+1),
				Severity:   "error",
			})
		}

		slots := SlotCount(page.Template)
		if slots == 0 {
			warnings = append(warnings, ValidationWarning{
				PageNumber: page.PageNumber,
				Message:    fmt.Sprintf("unknown template %q", page.Template),
				Severity:   "error",
			})
			continue
		}
		if len(page.PhotoIDs) > slots {
			warnings = append(warnings, ValidationWarning{
				PageNumber: page.PageNumber,
				Message:    fmt.Sprintf("%d photos on a %d-slot %s page", len(page.PhotoIDs), slots, page.Template),
				Severity:   "error",
			})
		}

		for slot, id := range page.PhotoIDs {
			if prevPage, ok := seen[id]; ok {
				warnings = append(warnings, ValidationWarning{
					PageNumber: page.PageNumber,
					SlotIndex:  slot,
					Message:    fmt.Sprintf("photo %s already placed on page %d", id, prevPage),
					Severity:   "error",
				})
			}
			seen[id] = page.PageNumber
		}

		for slot, geo := range page.LayoutData {
			if geo.X < 0 || geo.Y < 0 || geo.X+geo.W > 1.0001 || geo.Y+geo.H > 1.0001 || geo.W <= 0 || geo.H <= 0 {
				warnings = append(warnings, ValidationWarning{
					PageNumber: page.PageNumber,
					SlotIndex:  slot,
					Message:    fmt.Sprintf("slot geometry out of bounds: x=%.2f y=%.2f w=%.2f h=%.2f", geo.X, geo.Y, geo.W, geo.H),
					Severity:   "error",
				})
			}
		}
	}

	return warnings
}
