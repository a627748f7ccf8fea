// Package scanner turns a photograph of a document into an upright page.
//
// A Scanner runs the full pipeline on one image:
//
//  1. imaging.Preprocess reduces the photograph to a working copy of about
//     200 pixels wide and extracts its edge map.
//  2. detection.DetectSegments finds straight edges.
//  3. detection.GroupLines sorts them into horizontal and vertical groups,
//     substituting image borders where fewer than two edges were found, and
//     the outermost line of each side becomes a document border.
//  4. detection.SolveCorners intersects the borders.
//  5. rectify.Rectify scales the corners back to full resolution and warps
//     the enclosed quadrilateral onto a page of fixed size.
//
// Detect stops after step 4 and returns every intermediate value. Rectify and
// Scan run all steps. RectifyFiles processes many files with a worker pool.
//
// # Degenerate geometry
//
// When two borders are parallel their corner is reported as
// detection.Sentinel(). By default the scanner logs a warning and warps with
// the sentinel corner anyway, which produces a distorted but correctly sized
// page. With Options.Strict set, Scan returns ErrDegenerateCorners instead,
// and a transform that cannot be solved yields rectify.ErrSingularHomography.
//
// A Scanner holds no mutable state and is safe for concurrent use.
package scanner
