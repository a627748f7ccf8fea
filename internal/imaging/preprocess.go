package imaging

import (
	"errors"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ErrEmptyImage is returned when an image has zero width or height.
var ErrEmptyImage = errors.New("image is empty")

// Default working-resolution bounds.
const (
	// DefaultMinWorkingWidth is the width the working copy is reduced towards.
	DefaultMinWorkingWidth = 200

	// DefaultMaxScale caps the reduction factor for very large photographs.
	DefaultMaxScale = 10.0
)

// Working is the downscaled copy of a photograph together with its edge map.
type Working struct {
	// Scale converts working coordinates to full-resolution coordinates
	// (full = working * Scale).
	Scale float64

	// Width and Height are the working-resolution dimensions.
	Width  int
	Height int

	// Gray is the grayscale working image.
	Gray *image.Gray

	// Threshold is the Otsu level of Gray. Canny used it as the high
	// threshold and half of it as the low threshold.
	Threshold uint8

	// Edges is the binary edge map (255 = edge).
	Edges *image.Gray
}

// WorkingScale returns the factor between a full-resolution width w and the
// working width: min(maxScale, w / minWidth).
//
// Images narrower than minWidth get a factor below 1 and are enlarged.
func WorkingScale(w, minWidth int, maxScale float64) float64 {
	return math.Min(maxScale, float64(w)/float64(minWidth))
}

// Preprocess downsamples img to working resolution and computes its edge map.
//
// Parameters:
//   - img: Full-resolution photograph.
//   - minWidth: Working width floor; DefaultMinWorkingWidth if <= 0.
//   - maxScale: Cap on the reduction factor; DefaultMaxScale if <= 0.
//
// The working size is (int(w/scale), int(h/scale)).
//
// # Errors
//
//   - Returns ErrEmptyImage if img has zero width or height.
func Preprocess(img image.Image, minWidth int, maxScale float64) (*Working, error) {
	if minWidth <= 0 {
		minWidth = DefaultMinWorkingWidth
	}
	if maxScale <= 0 {
		maxScale = DefaultMaxScale
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	scale := WorkingScale(w, minWidth, maxScale)
	wProc := int(float64(w) / scale)
	hProc := int(float64(h) / scale)
	if wProc < 1 {
		wProc = 1
	}
	if hProc < 1 {
		hProc = 1
	}

	resized := imaging.Resize(img, wProc, hProc, imaging.Linear)
	gray := toGray(resized)
	thresh := OtsuThreshold(gray)
	edges := Canny(gray, float64(thresh)*0.5, float64(thresh))

	return &Working{
		Scale:     scale,
		Width:     wProc,
		Height:    hProc,
		Gray:      gray,
		Threshold: thresh,
		Edges:     edges,
	}, nil
}

// toGray converts img to an 8-bit single channel image using BT.601 luminance.
func toGray(img image.Image) *image.Gray {
	lum := imaging.Grayscale(img)
	b := lum.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := lum.Pix[y*lum.Stride : y*lum.Stride+b.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}
