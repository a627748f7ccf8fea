package detection

import (
	"image"
	"math"
	"math/rand/v2"
)

// Segment is a straight line segment between two points.
type Segment struct {
	P1 image.Point `json:"p1"`
	P2 image.Point `json:"p2"`
}

// Midpoint returns the integer mean of the endpoints.
func (s Segment) Midpoint() image.Point {
	return image.Pt((s.P1.X+s.P2.X)/2, (s.P1.Y+s.P2.Y)/2)
}

// IsHorizontal reports whether the segment spans more columns than rows.
// Segments at exactly 45 degrees are vertical.
func (s Segment) IsHorizontal() bool {
	return absInt(s.P1.X-s.P2.X) > absInt(s.P1.Y-s.P2.Y)
}

// HoughParams configures DetectSegments.
type HoughParams struct {
	// Threshold is the minimum accumulator votes for a line.
	Threshold int

	// MinLength is the minimum segment extent, in pixels along either axis.
	MinLength int

	// MaxGap is the largest run of missing edge pixels bridged within one segment.
	MaxGap int
}

// Default Hough parameterization relative to the working width.
const (
	DefaultLineDivisor = 3
	DefaultMaxLineGap  = 20
)

// NewHoughParams derives detector parameters from the edge map width: both
// the vote threshold and the minimum length are width/divisor.
func NewHoughParams(width, divisor, maxGap int) HoughParams {
	return HoughParams{
		Threshold: width / divisor,
		MinLength: width / divisor,
		MaxGap:    maxGap,
	}
}

const (
	houghAngles = 180 // 1 degree resolution
	houghShift  = 16  // fixed-point bits used while walking a line
	houghSeed   = 0x2a5f1e3d
)

// DetectSegments finds line segments in a binary edge map using the
// progressive probabilistic Hough transform (Matas et al.).
//
// Any non-zero pixel of edges is an edge point. Distance resolution is one
// pixel and angle resolution one degree. Each edge point is voted once, in a
// seeded random order; as soon as a (rho, theta) cell reaches the threshold,
// the line is followed in both directions through the edge points, bridging
// gaps of up to MaxGap pixels. Points consumed by a line are removed from the
// map, and their votes are withdrawn if the line was long enough to keep.
//
// Returned endpoints are relative to the edge map origin. The result may be
// empty; it is never nil when edges has a non-zero area.
func DetectSegments(edges *image.Gray, p HoughParams) []Segment {
	bounds := edges.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	segments := make([]Segment, 0)
	if width == 0 || height == 0 {
		return segments
	}

	threshold := max(p.Threshold, 1)
	numRho := (width+height)*2 + 1
	rhoOffset := (numRho - 1) / 2

	var cosT, sinT [houghAngles]float64
	for n := 0; n < houghAngles; n++ {
		theta := float64(n) * math.Pi / houghAngles
		cosT[n] = math.Cos(theta)
		sinT[n] = math.Sin(theta)
	}
	rhoIndex := func(x, y, n int) int {
		r := int(math.Round(float64(x)*cosT[n] + float64(y)*sinT[n]))
		return n*numRho + r + rhoOffset
	}

	accum := make([]int, houghAngles*numRho)
	mask := make([]bool, width*height)
	points := make([]image.Point, 0)
	for y := 0; y < height; y++ {
		row := edges.Pix[edges.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < width; x++ {
			if row[x] != 0 {
				mask[y*width+x] = true
				points = append(points, image.Pt(x, y))
			}
		}
	}

	rng := rand.New(rand.NewPCG(houghSeed, houghSeed))

	for count := len(points); count > 0; count-- {
		idx := rng.IntN(count)
		pt := points[idx]
		points[idx] = points[count-1]

		// Already consumed by an earlier line.
		if !mask[pt.Y*width+pt.X] {
			continue
		}

		maxVal, maxN := threshold-1, 0
		for n := 0; n < houghAngles; n++ {
			i := rhoIndex(pt.X, pt.Y, n)
			accum[i]++
			if accum[i] > maxVal {
				maxVal = accum[i]
				maxN = n
			}
		}
		if maxVal < threshold {
			continue
		}

		// Walk along the line direction (-sin, cos) in fixed point, stepping
		// one pixel along the dominant axis.
		a := -sinT[maxN]
		b := cosT[maxN]
		x0, y0 := pt.X, pt.Y
		var dx0, dy0 int
		xMajor := math.Abs(a) > math.Abs(b)
		if xMajor {
			dx0 = signInt(a)
			dy0 = int(math.Round(b * (1 << houghShift) / math.Abs(a)))
			y0 = y0<<houghShift + 1<<(houghShift-1)
		} else {
			dy0 = signInt(b)
			dx0 = int(math.Round(a * (1 << houghShift) / math.Abs(b)))
			x0 = x0<<houghShift + 1<<(houghShift-1)
		}
		toPixel := func(x, y int) (int, int) {
			if xMajor {
				return x, y >> houghShift
			}
			return x >> houghShift, y
		}

		var ends [2]image.Point
		for k := 0; k < 2; k++ {
			x, y, dx, dy := x0, y0, dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			gap := 0
			for ; ; x, y = x+dx, y+dy {
				px, py := toPixel(x, y)
				if px < 0 || px >= width || py < 0 || py >= height {
					break
				}
				if mask[py*width+px] {
					gap = 0
					ends[k] = image.Pt(px, py)
				} else {
					gap++
					if gap > p.MaxGap {
						break
					}
				}
			}
		}

		good := absInt(ends[1].X-ends[0].X) >= p.MinLength ||
			absInt(ends[1].Y-ends[0].Y) >= p.MinLength

		// Consume the points of the line; withdraw their votes if it is kept.
		for k := 0; k < 2; k++ {
			x, y, dx, dy := x0, y0, dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for ; ; x, y = x+dx, y+dy {
				px, py := toPixel(x, y)
				i := py*width + px
				if mask[i] {
					if good {
						for n := 0; n < houghAngles; n++ {
							accum[rhoIndex(px, py, n)]--
						}
					}
					mask[i] = false
				}
				if px == ends[k].X && py == ends[k].Y {
					break
				}
			}
		}

		if good {
			segments = append(segments, Segment{P1: ends[0], P2: ends[1]})
		}
	}

	return segments
}

func signInt(v float64) int {
	if v > 0 {
		return 1
	}
	return -1
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
