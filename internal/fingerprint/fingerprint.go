// Package fingerprint computes a 64-bit difference hash for decoded images.
// The hash is a cheap near-duplicate signal: two photos of the same burst
// differ in only a few bits.
package fingerprint

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// DHash computes a 64-bit difference hash for an image: the image is scaled
// to 9x8 grayscale and each bit records whether a pixel is brighter than its
// right-hand neighbour (8 rows x 8 comparisons).
func DHash(img image.Image) uint64 {
	resized := resize(img, 9, 8)
	gray := toGrayscale(resized)

	var hash uint64
	bit := 63
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if gray[x][y] > gray[x+1][y] {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash
}

// FormatHash renders a 64-bit hash as a 16-character hex string.
func FormatHash(hash uint64) string {
	return fmt.Sprintf("%016x", hash)
}

// HammingDistance computes the number of differing bits between two hashes.
func HammingDistance(hash1, hash2 uint64) int {
	xor := hash1 ^ hash2
	distance := 0
	for xor != 0 {
		distance++
		xor &= xor - 1 // Clear lowest set bit
	}
	return distance
}

// Similar returns true if two hashes are within the given Hamming threshold.
// A threshold of 10 is typically used for near-duplicate detection.
func Similar(hash1, hash2 uint64, threshold int) bool {
	return HammingDistance(hash1, hash2) <= threshold
}

// resize scales an image to the specified dimensions.
func resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// toGrayscale converts an image to a 2D array of grayscale values (0-255).
func toGrayscale(img *image.RGBA) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := make([][]float64, width)
	for x := 0; x < width; x++ {
		gray[x] = make([]float64, height)
		for y := 0; y < height; y++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// ITU-R BT.601 luma formula.
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			gray[x][y] = luma
		}
	}

	return gray
}
