package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// EdgeDetectResult contains an edge map encoded as base64 PNG.
//
// The result is a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
type EdgeDetectResult struct {
	// Width of the edge map in pixels.
	Width int `json:"width"`

	// Height of the edge map in pixels.
	Height int `json:"height"`

	// Threshold is the Otsu level used as the high Canny threshold.
	Threshold int `json:"threshold"`

	// ImageBase64 is the edge map encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png" for edge detection results.
	MimeType string `json:"mime_type"`
}

// EncodeEdgeMap wraps a working edge map in an EdgeDetectResult.
func EncodeEdgeMap(w *Working) (*EdgeDetectResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, w.Edges); err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	return &EdgeDetectResult{
		Width:       w.Width,
		Height:      w.Height,
		Threshold:   int(w.Threshold),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Edge map cell states during Canny.
const (
	edgeNone uint8 = iota
	edgeWeak
	edgeStrong
)

// tan(22.5°) in Q15 fixed point.
const (
	cannyShift = 15
	cannyTG22  = 13573
)

// Canny performs Canny edge detection on a grayscale image.
//
// Parameters:
//   - gray: Source image. Its bounds need not start at the origin.
//   - low: Gradient magnitudes at or below this value are never edges.
//   - high: Gradient magnitudes above this value are always edges.
//
// Returns a new *image.Gray with origin (0,0) and the same size as gray,
// where edge pixels are 255 and everything else is 0.
//
// # Algorithm
//
//  1. Gradient: 3x3 Sobel operators on the raw 0-255 intensities, with
//     replicated borders. The magnitude is the L1 norm |Gx| + |Gy|.
//
//  2. Non-maximum suppression: a pixel survives only if its magnitude is a
//     local maximum along the gradient direction, quantized to one of four
//     sectors (horizontal, vertical, and the two diagonals). Ties are broken
//     towards the lower/left neighbour so that plateaus yield one-pixel lines.
//
//  3. Hysteresis: surviving pixels above high seed the edge set; pixels above
//     low are added when they are 8-connected to the set, transitively.
//
// Comparisons against both thresholds are strict, so a uniform image produces
// an empty edge map even when both thresholds are zero.
func Canny(gray *image.Gray, low, high float64) *image.Gray {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	result := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return result
	}

	px := func(x, y int) int {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return int(gray.Pix[gray.PixOffset(x+bounds.Min.X, y+bounds.Min.Y)])
	}

	gx := make([]int, width*height)
	gy := make([]int, width*height)
	mag := make([]int, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tl, tc, tr := px(x-1, y-1), px(x, y-1), px(x+1, y-1)
			ml, mr := px(x-1, y), px(x+1, y)
			bl, bc, br := px(x-1, y+1), px(x, y+1), px(x+1, y+1)

			dx := (tr + 2*mr + br) - (tl + 2*ml + bl)
			dy := (bl + 2*bc + br) - (tl + 2*tc + tr)
			i := y*width + x
			gx[i] = dx
			gy[i] = dy
			mag[i] = abs(dx) + abs(dy)
		}
	}

	// Neighbours outside the image count as zero magnitude.
	at := func(x, y int) int {
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0
		}
		return mag[y*width+x]
	}

	state := make([]uint8, width*height)
	stack := make([]int, 0, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			m := mag[i]
			if float64(m) <= low {
				continue
			}

			xs, ys := gx[i], gy[i]
			ax := abs(xs)
			ay := abs(ys) << cannyShift
			tg22x := ax * cannyTG22

			var isMax bool
			if ay < tg22x {
				isMax = m > at(x-1, y) && m >= at(x+1, y)
			} else {
				tg67x := tg22x + ax<<(cannyShift+1)
				if ay > tg67x {
					isMax = m > at(x, y-1) && m >= at(x, y+1)
				} else {
					s := 1
					if (xs ^ ys) < 0 {
						s = -1
					}
					isMax = m > at(x-s, y-1) && m > at(x+s, y+1)
				}
			}
			if !isMax {
				continue
			}

			if float64(m) > high {
				state[i] = edgeStrong
				stack = append(stack, i)
			} else {
				state[i] = edgeWeak
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				nx, ny := x+kx, y+ky
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				j := ny*width + nx
				if state[j] == edgeWeak {
					state[j] = edgeStrong
					stack = append(stack, j)
				}
			}
		}
	}

	for i, s := range state {
		if s == edgeStrong {
			result.Pix[(i/width)*result.Stride+i%width] = 255
		}
	}
	return result
}

// clamp constrains an integer value to the range [lo, hi].
// Used for replicated-border handling in convolution.
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
