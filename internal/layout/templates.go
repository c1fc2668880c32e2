// Package layout assigns an ordered photo sequence to page templates,
// producing the paginated plan handed to the PDF renderer.
package layout

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/book-planner/internal/book"
)

//go:embed templates.yaml
var templatesYAML []byte

// Template names. Each template has a fixed slot count.
const (
	TemplateHero           = "hero"
	TemplateDuoHorizontal  = "duo_horizontal"
	TemplateDuoVertical    = "duo_vertical"
	TemplateTrio           = "trio"
	TemplateTrioAsymmetric = "trio_asymmetric"
	TemplateQuad           = "quad"
	TemplateQuadGrid       = "quad_grid"
	TemplateGallery6       = "gallery_6"
)

// slotCounts maps template names to their fixed slot counts.
var slotCounts = map[string]int{
	TemplateHero:           1,
	TemplateDuoHorizontal:  2,
	TemplateDuoVertical:    2,
	TemplateTrio:           3,
	TemplateTrioAsymmetric: 3,
	TemplateQuad:           4,
	TemplateQuadGrid:       4,
	TemplateGallery6:       6,
}

type templateDef struct {
	Slots []book.SlotGeometry `yaml:"slots"`
}

type templatesFile struct {
	Templates map[string]templateDef `yaml:"templates"`
}

// geometries holds the per-slot rectangles parsed from the embedded file.
var geometries map[string][]book.SlotGeometry

func init() {
	var file templatesFile
	if err := yaml.Unmarshal(templatesYAML, &file); err != nil {
		// This is an embedded file so this error should never happen in practice.
		panic("failed to unmarshal embedded templates.yaml: " + err.Error())
	}
	geometries = make(map[string][]book.SlotGeometry, len(file.Templates))
	for name, def := range file.Templates {
		if len(def.Slots) != slotCounts[name] {
			panic("templates.yaml slot count mismatch for " + name)
		}
		geometries[name] = def.Slots
	}
}

// SlotCount returns the number of photo slots in a template, or 0 for an
// unknown name.
func SlotCount(template string) int {
	return slotCounts[template]
}

// SlotGeometries returns the fractional slot rectangles for a template. The
// returned slice is a copy; callers may keep it.
func SlotGeometries(template string) []book.SlotGeometry {
	src := geometries[template]
	out := make([]book.SlotGeometry, len(src))
	copy(out, src)
	return out
}

// Templates returns all known template names with their slot counts.
func Templates() map[string]int {
	out := make(map[string]int, len(slotCounts))
	for name, count := range slotCounts {
		out[name] = count
	}
	return out
}

// templateCandidates returns the ordered template choices for a page given
// how many photos remain. The first candidate is preferred; the variety rule
// in pickTemplate walks the list to avoid repeating the previous page.
func templateCandidates(remaining int) []string {
	switch {
	case remaining <= 0:
		return nil
	case remaining == 1:
		return []string{TemplateHero}
	case remaining == 2:
		return []string{TemplateDuoHorizontal, TemplateDuoVertical}
	case remaining == 3:
		return []string{TemplateTrio, TemplateTrioAsymmetric}
	case remaining <= 5:
		return []string{TemplateQuad, TemplateQuadGrid}
	default:
		return []string{TemplateGallery6, TemplateQuad, TemplateQuadGrid}
	}
}

// pickTemplate chooses the next page template: the first candidate that
// differs from the previous page's template, falling back to the first
// candidate when no alternative exists.
func pickTemplate(remaining int, prev string) string {
	candidates := templateCandidates(remaining)
	if len(candidates) == 0 {
		return ""
	}
	for _, c := range candidates {
		if c != prev {
			return c
		}
	}
	return candidates[0]
}
