// Package analyzer computes print-suitability metrics for a single photo:
// sharpness, face presence, dominant color, orientation and a composite
// quality score. It consumes raw image bytes and returns an annotated
// PhotoRecord fragment; it never touches storage.
package analyzer

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/kozaktomas/book-planner/internal/book"
	"github.com/kozaktomas/book-planner/internal/constants"
	"github.com/kozaktomas/book-planner/internal/fingerprint"
)

// formatMIMETypes maps image.Decode format names to MIME types.
var formatMIMETypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
}

// Analyze decodes a photo and computes its analysis fragment. The id is used
// only for error reporting; the caller assigns identity. A decode failure is
// reported as *book.DecodeError, never as a zeroed record.
func Analyze(data []byte, id string) (*book.PhotoRecord, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &book.DecodeError{ID: id, Err: err}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	ratio := float64(width) / float64(height)

	// All pixel metrics run on a bounded downscale so analysis cost does not
	// grow with the upload resolution.
	small := downscale(img, constants.AnalysisMaxDimension)
	gray := toGrayscale(small)

	sharpness := sharpnessScore(gray)
	dominant, palette := dominantColors(small)
	faceCount := countFaceRegions(small)

	dhash := fingerprint.DHash(img)
	exif := parseExif(data)

	rec := &book.PhotoRecord{
		ID:              id,
		Width:           width,
		Height:          height,
		FileSize:        int64(len(data)),
		MimeType:        formatMIMETypes[format],
		ExifOrientation: exif.orientation,
		DateTaken:       exif.dateTaken,
		SharpnessScore:  &sharpness,
		HasFaces:        faceCount > 0,
		FaceCount:       faceCount,
		DominantColor:   dominant,
		ColorPalette:    palette,
		Orientation:     classifyOrientation(ratio),
		AspectRatio:     ratio,
		DHash:           fingerprint.FormatHash(dhash),
		DHashBits:       dhash,
	}
	rec.QualityScore = QualityScore(rec)

	return rec, nil
}

// classifyOrientation buckets an aspect ratio into portrait, landscape or
// square (within the square tolerance).
func classifyOrientation(ratio float64) book.Orientation {
	switch {
	case math.Abs(ratio-1.0) <= constants.SquareTolerance:
		return book.OrientationSquare
	case ratio < 1.0:
		return book.OrientationPortrait
	default:
		return book.OrientationLandscape
	}
}

// downscale resizes an image so its longer side is at most maxDim,
// preserving aspect ratio. Images already small enough are converted as-is.
func downscale(img image.Image, maxDim int) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	newWidth, newHeight := width, height
	if width > maxDim || height > maxDim {
		if width > height {
			newWidth = maxDim
			newHeight = int(float64(height) * float64(maxDim) / float64(width))
		} else {
			newHeight = maxDim
			newWidth = int(float64(width) * float64(maxDim) / float64(height))
		}
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
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

// sharpnessScore estimates sharpness on a 0-100 scale from the standard
// deviation of the 4-neighbour Laplacian. Flat or blurry images score near
// zero; hard edges saturate the scale.
func sharpnessScore(gray [][]float64) float64 {
	width := len(gray)
	if width < 3 {
		return 0
	}
	height := len(gray[0])
	if height < 3 {
		return 0
	}

	var sum, sumSq float64
	n := 0
	for x := 1; x < width-1; x++ {
		for y := 1; y < height-1; y++ {
			lap := 4*gray[x][y] - gray[x-1][y] - gray[x+1][y] - gray[x][y-1] - gray[x][y+1]
			sum += lap
			sumSq += lap * lap
			n++
		}
	}
	if n == 0 {
		return 0
	}

	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}

	score := math.Sqrt(variance) * 2
	return math.Min(100, score)
}
