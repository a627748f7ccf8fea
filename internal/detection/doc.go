// Package detection finds the four boundary lines of a document in an edge
// map and intersects them into corners.
//
// # Pipeline
//
// The functions in this package are applied in order:
//
//  1. DetectSegments: progressive probabilistic Hough transform over a binary
//     edge map, returning straight line segments.
//  2. GroupLines: splits segments into horizontal and vertical groups, adds
//     image-border lines when a group has fewer than two members, and sorts
//     each group by midpoint.
//  3. Borders: the first and last line of each sorted group are the top,
//     bottom, left and right document edges.
//  4. SolveCorners: intersects the edges pairwise into the top-left,
//     top-right, bottom-left and bottom-right corners.
//
// # Coordinate System
//
// All coordinates are in the working (downscaled) image:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Degenerate Geometry
//
// Two edges that are parallel, or a segment that collapses to a point, have
// no intersection. SolveCorners never fails: such a corner is reported as the
// sentinel point (-1, -1) and flagged in Corners.Degenerate, leaving the
// decision to the caller.
//
// # Determinism
//
// The Hough transform visits edge points in a shuffled order, as the
// progressive algorithm requires, but the shuffle uses a fixed seed. The same
// edge map always yields the same segments.
package detection
