// Package theme classifies dominant photo colors into coarse mood labels
// used to suggest a book's visual style.
package theme

import (
	"fmt"
	"strings"

	"github.com/kozaktomas/book-planner/internal/book"
)

// graySaturationThreshold is the saturation below which a color counts as
// near-gray and is classified as bw regardless of hue.
const graySaturationThreshold = 0.15

// Hue bucket boundaries in degrees. The buckets are contiguous and cover the
// full hue circle, so every valid color maps to exactly one label:
//
//	[0, 70) and [330, 360)  -> warm     (reds, oranges, yellows)
//	[70, 170)               -> vintage  (yellow-greens, olives)
//	[170, 330)              -> cool     (cyans, blues, purples)
const (
	warmUpperHue    = 70.0
	vintageUpperHue = 170.0
	coolUpperHue    = 330.0
)

// SuggestTheme derives a theme label from a hex color such as "#3498DB".
// It is a pure function: deterministic, no side effects.
func SuggestTheme(hexColor string) (book.Theme, error) {
	r, g, b, err := ParseHex(hexColor)
	if err != nil {
		return "", err
	}

	h, s, _ := rgbToHSL(r, g, b)

	if s < graySaturationThreshold {
		return book.ThemeBW, nil
	}

	switch {
	case h < warmUpperHue || h >= coolUpperHue:
		return book.ThemeWarm, nil
	case h < vintageUpperHue:
		return book.ThemeVintage, nil
	default:
		return book.ThemeCool, nil
	}
}

// ParseHex parses a "#RRGGBB" or "RRGGBB" color into 0-255 channels.
func ParseHex(hexColor string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hexColor)
	}
	var rv, gv, bv int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &rv, &gv, &bv); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hexColor, err)
	}
	return uint8(rv), uint8(gv), uint8(bv), nil
}

// rgbToHSL converts 0-255 RGB channels to hue (degrees, 0-360),
// saturation (0-1) and lightness (0-1).
func rgbToHSL(r, g, b uint8) (h, s, l float64) {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	maxC := max(rf, gf, bf)
	minC := min(rf, gf, bf)
	delta := maxC - minC

	l = (maxC + minC) / 2.0

	if delta == 0 {
		return 0, 0, l
	}

	if l > 0.5 {
		s = delta / (2.0 - maxC - minC)
	} else {
		s = delta / (maxC + minC)
	}

	switch maxC {
	case rf:
		h = (gf - bf) / delta
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/delta + 2
	default:
		h = (rf-gf)/delta + 4
	}
	h *= 60

	return h, s, l
}
