package detection

import (
	"image"
	"math"
	"testing"
)

func TestIntersect(t *testing.T) {
	tests := []struct {
		name   string
		l1, l2 Segment
		want   PointF
	}{
		{"axis aligned", hline(20, 0, 100), vline(30, 0, 100), PointF{30, 20}},
		{"outside both segments", hline(20, 0, 10), vline(80, 50, 60), PointF{80, 20}},
		{"diagonals", Segment{image.Pt(0, 0), image.Pt(10, 10)}, Segment{image.Pt(0, 10), image.Pt(10, 0)}, PointF{5, 5}},
		{"fractional", Segment{image.Pt(0, 0), image.Pt(3, 1)}, vline(1, 0, 5), PointF{1, 1.0 / 3.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Intersect(tt.l1, tt.l2)
			if !ok {
				t.Fatal("Intersect reported no intersection")
			}
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Intersect: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersect_Parallel(t *testing.T) {
	tests := []struct {
		name   string
		l1, l2 Segment
	}{
		{"two horizontals", hline(10, 0, 100), hline(90, 0, 100)},
		{"two verticals", vline(10, 0, 100), vline(90, 0, 100)},
		{"same line", hline(10, 0, 100), hline(10, 20, 50)},
		{"slanted parallels", Segment{image.Pt(0, 0), image.Pt(10, 5)}, Segment{image.Pt(0, 7), image.Pt(20, 17)}},
		{"point segment", Segment{image.Pt(5, 5), image.Pt(5, 5)}, vline(30, 0, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Intersect(tt.l1, tt.l2)
			if ok {
				t.Error("Intersect should report no intersection")
			}
			if got != Sentinel() {
				t.Errorf("Intersect: got %v, want sentinel (-1,-1)", got)
			}
		})
	}
}

func TestSolveCorners_Order(t *testing.T) {
	b := Borders{
		Top:    hline(10, 0, 199),
		Bottom: hline(140, 0, 199),
		Left:   vline(15, 0, 149),
		Right:  vline(185, 0, 149),
	}

	c := SolveCorners(b)

	want := [4]PointF{
		TopLeft:     {15, 10},
		TopRight:    {185, 10},
		BottomLeft:  {15, 140},
		BottomRight: {185, 140},
	}
	if c.Points != want {
		t.Errorf("corners: got %v, want %v", c.Points, want)
	}
	if !c.Valid() {
		t.Error("corners should be valid")
	}
}

func TestSolveCorners_Degenerate(t *testing.T) {
	// A "left" border that is actually horizontal never meets top or bottom.
	b := Borders{
		Top:    hline(10, 0, 199),
		Bottom: hline(140, 0, 199),
		Left:   hline(70, 0, 100),
		Right:  vline(185, 0, 149),
	}

	c := SolveCorners(b)

	if c.Valid() {
		t.Fatal("corners should be invalid")
	}
	if !c.Degenerate[TopLeft] || !c.Degenerate[BottomLeft] {
		t.Errorf("left corners should be degenerate, got %v", c.Degenerate)
	}
	if c.Degenerate[TopRight] || c.Degenerate[BottomRight] {
		t.Errorf("right corners should be valid, got %v", c.Degenerate)
	}
	if c.Points[TopLeft] != Sentinel() || c.Points[BottomLeft] != Sentinel() {
		t.Errorf("degenerate corners should hold the sentinel, got %v", c.Points)
	}
}

func TestCorners_Scale(t *testing.T) {
	c := Corners{Points: [4]PointF{{0, 0}, {199, 0}, {0, 149}, {199, 149}}}
	c.Degenerate[BottomRight] = true

	scaled := c.Scale(2.5)

	want := [4]PointF{{0, 0}, {497.5, 0}, {0, 372.5}, {497.5, 372.5}}
	if scaled.Points != want {
		t.Errorf("Scale: got %v, want %v", scaled.Points, want)
	}
	if !scaled.Degenerate[BottomRight] {
		t.Error("Scale should keep degenerate flags")
	}
	if c.Points[1].X != 199 {
		t.Error("Scale should not modify the receiver")
	}
}

func TestSentinel_CannotBeMutated(t *testing.T) {
	p := Sentinel()
	p.X, p.Y = 5, 5

	got, ok := Intersect(hline(10, 0, 50), hline(20, 0, 50))
	if ok {
		t.Fatal("parallel lines should not intersect")
	}
	if got != (PointF{X: -1, Y: -1}) {
		t.Errorf("got %v, want (-1,-1)", got)
	}
}
