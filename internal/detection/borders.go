package detection

import (
	"cmp"
	"image"
	"slices"
)

// Borders holds the four extreme lines of a document outline.
type Borders struct {
	Top    Segment `json:"top"`
	Bottom Segment `json:"bottom"`
	Left   Segment `json:"left"`
	Right  Segment `json:"right"`
}

// LineGroups holds classified segments after fallback synthesis and sorting.
//
// Horizontal is sorted by midpoint Y and Vertical by midpoint X, both
// ascending and stable. Each group has at least two members.
type LineGroups struct {
	Horizontal []Segment `json:"horizontal"`
	Vertical   []Segment `json:"vertical"`

	// SyntheticHorizontal and SyntheticVertical count the image-border lines
	// that were added because too few lines were detected.
	SyntheticHorizontal int `json:"synthetic_horizontal"`
	SyntheticVertical   int `json:"synthetic_vertical"`
}

// Classify splits segments into horizontal and vertical groups, preserving
// their input order.
func Classify(segments []Segment) (horizontals, verticals []Segment) {
	for _, s := range segments {
		if s.IsHorizontal() {
			horizontals = append(horizontals, s)
		} else {
			verticals = append(verticals, s)
		}
	}
	return horizontals, verticals
}

// GroupLines classifies segments detected in a width x height working image,
// fills in missing document edges with image-border lines, and sorts both
// groups.
//
// A group with fewer than two lines is completed as follows:
//   - no lines: both image borders of that axis are added;
//   - one line past the middle (midpoint > dim/2): the near border
//     (top row or left column) is added;
//   - one line at or before the middle: the far border (bottom row or right
//     column) is added.
//
// Groups with two or more lines are left alone, even when all of them lie on
// the same side of the image.
func GroupLines(segments []Segment, width, height int) LineGroups {
	horizontals, verticals := Classify(segments)

	top := Segment{P1: image.Pt(0, 0), P2: image.Pt(width-1, 0)}
	bottom := Segment{P1: image.Pt(0, height-1), P2: image.Pt(width-1, height-1)}
	left := Segment{P1: image.Pt(0, 0), P2: image.Pt(0, height-1)}
	right := Segment{P1: image.Pt(width-1, 0), P2: image.Pt(width-1, height-1)}

	var g LineGroups
	g.Horizontal, g.SyntheticHorizontal = completeGroup(horizontals, height, midY, top, bottom)
	g.Vertical, g.SyntheticVertical = completeGroup(verticals, width, midX, left, right)

	sortByKey(g.Horizontal, midY)
	sortByKey(g.Vertical, midX)
	return g
}

// Borders selects the extreme line of each side from sorted groups.
func (g LineGroups) Borders() Borders {
	return Borders{
		Top:    g.Horizontal[0],
		Bottom: g.Horizontal[len(g.Horizontal)-1],
		Left:   g.Vertical[0],
		Right:  g.Vertical[len(g.Vertical)-1],
	}
}

func completeGroup(lines []Segment, dim int, key func(Segment) int, near, far Segment) ([]Segment, int) {
	if len(lines) >= 2 {
		return lines, 0
	}

	sole := len(lines) == 1
	var mid int
	if sole {
		mid = key(lines[0])
	}

	added := 0
	if !sole || mid > dim/2 {
		lines = append(lines, near)
		added++
	}
	if !sole || mid <= dim/2 {
		lines = append(lines, far)
		added++
	}
	return lines, added
}

func midX(s Segment) int { return s.Midpoint().X }
func midY(s Segment) int { return s.Midpoint().Y }

// sortByKey stable-sorts s by an extracted integer key. Elements with equal
// keys keep their relative order.
func sortByKey[T any](s []T, key func(T) int) {
	slices.SortStableFunc(s, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
}
