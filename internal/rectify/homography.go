package rectify

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/doc-scanner/internal/detection"
)

// ErrSingularHomography is returned when four point pairs do not determine a
// projective transform, typically because three or more source corners are
// collinear or coincide.
var ErrSingularHomography = errors.New("homography is singular")

// Homography is a 3x3 projective transform in row-major order. A point (x, y)
// maps to ((h0 x + h1 y + h2) / w, (h3 x + h4 y + h5) / w) with
// w = h6 x + h7 y + h8.
type Homography [9]float64

// Identity is the transform that leaves every point in place.
var Identity = Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}

// zeroTransform sends every point to the origin (see Apply).
var zeroTransform = Homography{}

// ComputeHomography returns the transform carrying src[i] onto dst[i] for all
// four corners. h8 is fixed to 1 and the remaining eight coefficients come
// from the direct linear system
//
//	[x y 1 0 0 0 -x*u -y*u] h = u
//	[0 0 0 x y 1 -x*v -y*v] h = v
//
// # Errors
//
//   - Returns ErrSingularHomography if the system has no unique solution.
func ComputeHomography(src, dst [4]detection.PointF) (Homography, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := range 4 {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}

	var coef mat.VecDense
	if err := checkSolve(coef.SolveVec(a, b)); err != nil {
		return Homography{}, err
	}

	var h Homography
	for i := range 8 {
		h[i] = coef.AtVec(i)
	}
	h[8] = 1
	if !h.finite() {
		return Homography{}, ErrSingularHomography
	}
	return h, nil
}

// Inverse returns the transform undoing h.
//
// # Errors
//
//   - Returns ErrSingularHomography if h is not invertible.
func (h Homography) Inverse() (Homography, error) {
	m := mat.NewDense(3, 3, h[:])

	var inv mat.Dense
	if err := checkSolve(inv.Inverse(m)); err != nil {
		return Homography{}, err
	}

	var out Homography
	for r := range 3 {
		for c := range 3 {
			out[r*3+c] = inv.At(r, c)
		}
	}
	if !out.finite() {
		return Homography{}, ErrSingularHomography
	}
	return out, nil
}

// Apply maps (x, y) through h. A point whose projective weight is zero maps
// to the origin.
func (h Homography) Apply(x, y float64) (float64, float64) {
	w := h[6]*x + h[7]*y + h[8]
	if w == 0 {
		return 0, 0
	}
	w = 1 / w
	return (h[0]*x + h[1]*y + h[2]) * w, (h[3]*x + h[4]*y + h[5]) * w
}

func (h Homography) finite() bool {
	for _, v := range h {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// checkSolve classifies an error from a gonum solve or inverse. gonum only
// reports a Condition error once the condition number exceeds
// mat.ConditionTolerance, at which point the result is numerically meaningless.
func checkSolve(err error) error {
	if err == nil {
		return nil
	}
	var cond mat.Condition
	if errors.Is(err, mat.ErrSingular) || errors.As(err, &cond) {
		return ErrSingularHomography
	}
	return fmt.Errorf("failed to solve homography: %w", err)
}
