package analyzer

import (
	"fmt"
	"image"
	"image/color"
	"sort"
)

// paletteSize is the number of colors returned in a photo's palette.
const paletteSize = 5

// colorBucket accumulates pixels that quantize to the same coarse RGB cell.
type colorBucket struct {
	key              int
	count            int
	sumR, sumG, sumB uint64
}

// dominantColors quantizes the image into a 16x16x16 RGB histogram and
// returns the hex color of the most populated cell (averaged over its
// members) plus an ordered palette of the top cells.
func dominantColors(img *image.RGBA) (string, []string) {
	bounds := img.Bounds()
	buckets := make(map[int]*colorBucket)

	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			r, g, b, _ := img.At(x, y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)

			key := int(r8>>4)<<8 | int(g8>>4)<<4 | int(b8>>4)
			bucket, ok := buckets[key]
			if !ok {
				bucket = &colorBucket{key: key}
				buckets[key] = bucket
			}
			bucket.count++
			bucket.sumR += uint64(r8)
			bucket.sumG += uint64(g8)
			bucket.sumB += uint64(b8)
		}
	}

	if len(buckets) == 0 {
		return "#000000", nil
	}

	ordered := make([]*colorBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	// Stable order: by population, ties by bucket key.
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].key < ordered[j].key
	})

	palette := make([]string, 0, paletteSize)
	for i, b := range ordered {
		if i >= paletteSize {
			break
		}
		palette = append(palette, b.hex())
	}

	return ordered[0].hex(), palette
}

func (b *colorBucket) hex() string {
	n := uint64(b.count)
	return fmt.Sprintf("#%02x%02x%02x", b.sumR/n, b.sumG/n, b.sumB/n)
}

// skinTone reports whether a pixel falls into the YCbCr skin-tone region
// (Cb 77-127, Cr 133-173).
func skinTone(r, g, b uint8) bool {
	_, cb, cr := color.RGBToYCbCr(r, g, b)
	return cb >= 77 && cb <= 127 && cr >= 133 && cr <= 173
}

// countFaceRegions is a lightweight face-presence heuristic: it counts
// connected skin-tone regions covering at least 1% of the analysis image.
// It deliberately trades accuracy for zero external dependencies; the count
// only feeds a capped quality bonus and a selection boost.
func countFaceRegions(img *image.RGBA) int {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return 0
	}

	skin := make([]bool, width*height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			skin[y*width+x] = skinTone(uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}

	minArea := width * height / 100
	if minArea < 4 {
		minArea = 4
	}

	visited := make([]bool, width*height)
	regions := 0
	for start := range skin {
		if !skin[start] || visited[start] {
			continue
		}
		// Flood fill (4-connectivity) to measure the region.
		area := 0
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			area++

			x, y := idx%width, idx/width
			for _, n := range neighbors(x, y, width, height) {
				if skin[n] && !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		if area >= minArea {
			regions++
		}
	}

	return regions
}

func neighbors(x, y, width, height int) []int {
	var out []int
	if x > 0 {
		out = append(out, y*width+x-1)
	}
	if x < width-1 {
		out = append(out, y*width+x+1)
	}
	if y > 0 {
		out = append(out, (y-1)*width+x)
	}
	if y < height-1 {
		out = append(out, (y+1)*width+x)
	}
	return out
}
