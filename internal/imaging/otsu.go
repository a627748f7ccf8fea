package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/histogram"
)

// otsuEpsilon matches single-precision machine epsilon; class weights closer
// than this to 0 or 1 are skipped.
const otsuEpsilon = 1.1920929e-07

// OtsuThreshold returns the gray level that maximizes the between-class
// variance of the image histogram (Otsu's method).
//
// Pixels with a value above the returned level belong to the foreground
// class. A single-valued (flat) image has no separating level and yields 0.
func OtsuThreshold(gray *image.Gray) uint8 {
	bins := histogram.NewRGBAHistogram(gray).R.Bins

	total := 0
	var mu float64
	for i, n := range bins {
		total += n
		mu += float64(i) * float64(n)
	}
	if total == 0 {
		return 0
	}
	scale := 1.0 / float64(total)
	mu *= scale

	var q1, mu1, maxSigma float64
	best := 0
	for i, n := range bins {
		p := float64(n) * scale
		mu1 *= q1
		q1 += p
		q2 := 1.0 - q1

		if min(q1, q2) < otsuEpsilon || max(q1, q2) > 1.0-otsuEpsilon {
			continue
		}

		mu1 = (mu1 + float64(i)*p) / q1
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma = sigma
			best = i
		}
	}
	return uint8(best)
}
