package detection

// PointF is a point with sub-pixel coordinates.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sentinel returns (-1, -1), the point reported for a corner whose lines do
// not intersect.
func Sentinel() PointF {
	return PointF{X: -1, Y: -1}
}

// Corner indices into Corners.Points.
const (
	TopLeft = iota
	TopRight
	BottomLeft
	BottomRight
)

// Corners holds the four corners of a document outline ordered top-left,
// top-right, bottom-left, bottom-right.
type Corners struct {
	Points [4]PointF `json:"points"`

	// Degenerate marks corners whose lines were parallel or collapsed to a
	// point. Such corners hold Sentinel().
	Degenerate [4]bool `json:"degenerate"`
}

// Valid reports whether every corner is a real intersection.
func (c Corners) Valid() bool {
	return !c.Degenerate[TopLeft] && !c.Degenerate[TopRight] &&
		!c.Degenerate[BottomLeft] && !c.Degenerate[BottomRight]
}

// Scale returns the corners with both coordinates multiplied by f.
// Degenerate flags are carried over unchanged.
func (c Corners) Scale(f float64) Corners {
	out := c
	for i, p := range c.Points {
		out.Points[i] = PointF{X: p.X * f, Y: p.Y * f}
	}
	return out
}

// Intersect returns the intersection of the infinite lines through l1 and l2.
//
// When the lines are parallel, or either segment has coincident endpoints,
// the determinant (x1-x2)(y3-y4) - (y1-y2)(x3-x4) is zero and Intersect
// returns Sentinel() and false.
func Intersect(l1, l2 Segment) (PointF, bool) {
	x1, y1, x2, y2 := l1.P1.X, l1.P1.Y, l1.P2.X, l1.P2.Y
	x3, y3, x4, y4 := l2.P1.X, l2.P1.Y, l2.P2.X, l2.P2.Y

	d := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if d == 0 {
		return Sentinel(), false
	}

	a := x1*y2 - y1*x2
	b := x3*y4 - y3*x4
	fd := float64(d)
	return PointF{
		X: float64(a*(x3-x4)-(x1-x2)*b) / fd,
		Y: float64(a*(y3-y4)-(y1-y2)*b) / fd,
	}, true
}

// SolveCorners intersects the top and bottom borders with the left and right
// borders. It never fails; see Corners.Degenerate.
func SolveCorners(b Borders) Corners {
	var c Corners
	pairs := [4][2]Segment{
		TopLeft:     {b.Top, b.Left},
		TopRight:    {b.Top, b.Right},
		BottomLeft:  {b.Bottom, b.Left},
		BottomRight: {b.Bottom, b.Right},
	}
	for i, pair := range pairs {
		p, ok := Intersect(pair[0], pair[1])
		c.Points[i] = p
		c.Degenerate[i] = !ok
	}
	return c
}
