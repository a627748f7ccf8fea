package scanner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ironsheep/doc-scanner/internal/detection"
	"github.com/ironsheep/doc-scanner/internal/imaging"
	"github.com/ironsheep/doc-scanner/internal/rectify"
)

// ErrDegenerateCorners is returned in strict mode when at least one document
// corner could not be computed because its borders are parallel.
var ErrDegenerateCorners = errors.New("document corners are degenerate")

// ErrOutputIsInput is returned when a page would be written over the
// photograph it was made from.
var ErrOutputIsInput = errors.New("output path is the input file")

// ErrUnwritableFormat is returned when the output extension names a format
// that cannot be encoded.
var ErrUnwritableFormat = errors.New("unsupported output format")

// Detection holds every intermediate result of locating a document.
type Detection struct {
	// Scale converts working coordinates to full-resolution coordinates.
	Scale float64 `json:"scale"`

	// WorkingWidth and WorkingHeight are the size of the downscaled copy.
	WorkingWidth  int `json:"working_width"`
	WorkingHeight int `json:"working_height"`

	// Threshold is the Otsu level used for edge extraction.
	Threshold uint8 `json:"threshold"`

	// Segments are the raw detected lines in working coordinates.
	Segments []detection.Segment `json:"segments"`

	// Groups are the classified, completed and sorted lines.
	Groups detection.LineGroups `json:"groups"`

	// Borders are the outermost line of each side.
	Borders detection.Borders `json:"borders"`

	// WorkingCorners are the border intersections in working coordinates.
	WorkingCorners detection.Corners `json:"working_corners"`

	// Corners are WorkingCorners scaled to the original photograph.
	Corners detection.Corners `json:"corners"`

	// Edges is the working edge map.
	Edges *image.Gray `json:"-"`
}

// Result is the output of a full scan.
type Result struct {
	// Page is the rectified document.
	Page *image.RGBA

	// Detection describes how the page was located.
	Detection *Detection

	// Homography maps photograph coordinates to page coordinates.
	Homography rectify.Homography
}

// Scanner locates and rectifies documents in photographs.
type Scanner struct {
	opts Options
	log  *slog.Logger
}

// New creates a Scanner. Unset options take their defaults.
func New(opts Options) *Scanner {
	opts = opts.withDefaults()
	return &Scanner{opts: opts, log: opts.Logger}
}

// Options returns the effective options of s.
func (s *Scanner) Options() Options {
	return s.opts
}

// Detect locates the document outline in img without rectifying it.
//
// Degenerate corners are not an error here; inspect Corners.Degenerate.
//
// # Errors
//
//   - Returns imaging.ErrEmptyImage if img has no pixels.
func (s *Scanner) Detect(img image.Image) (*Detection, error) {
	work, err := imaging.Preprocess(img, s.opts.MinWorkingWidth, s.opts.MaxScale)
	if err != nil {
		return nil, fmt.Errorf("failed to preprocess image: %w", err)
	}
	s.log.Debug("preprocessed image",
		"scale", work.Scale,
		"working_width", work.Width,
		"working_height", work.Height,
		"threshold", work.Threshold)

	segments := detection.DetectSegments(work.Edges, s.opts.houghParams(work.Width))
	groups := detection.GroupLines(segments, work.Width, work.Height)
	s.log.Debug("detected lines",
		"segments", len(segments),
		"horizontal", len(groups.Horizontal),
		"vertical", len(groups.Vertical))
	if groups.SyntheticHorizontal > 0 || groups.SyntheticVertical > 0 {
		s.log.Debug("substituted image borders for missing edges",
			"horizontal", groups.SyntheticHorizontal,
			"vertical", groups.SyntheticVertical)
	}

	borders := groups.Borders()
	corners := detection.SolveCorners(borders)

	det := &Detection{
		Scale:          work.Scale,
		WorkingWidth:   work.Width,
		WorkingHeight:  work.Height,
		Threshold:      work.Threshold,
		Segments:       segments,
		Groups:         groups,
		Borders:        borders,
		WorkingCorners: corners,
		Corners:        corners.Scale(work.Scale),
		Edges:          work.Edges,
	}
	if !corners.Valid() {
		s.log.Warn("document borders do not intersect", "degenerate", corners.Degenerate)
	}
	return det, nil
}

// Scan detects the document in img and rectifies it onto a page of
// PageWidth x PageHeight pixels.
//
// # Errors
//
//   - Returns imaging.ErrEmptyImage if img has no pixels.
//   - In strict mode, returns ErrDegenerateCorners or
//     rectify.ErrSingularHomography for unusable geometry.
func (s *Scanner) Scan(img image.Image) (*Result, error) {
	det, err := s.Detect(img)
	if err != nil {
		return nil, err
	}
	return s.warp(img, det)
}

// warp rectifies img using the corners found by Detect.
func (s *Scanner) warp(img image.Image, det *Detection) (*Result, error) {
	if s.opts.Strict && !det.Corners.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateCorners, det.Corners.Degenerate)
	}

	page, h, err := rectify.Rectify(img, det.Corners.Points, rectify.Params{
		Width:  s.opts.PageWidth,
		Height: s.opts.PageHeight,
		Fill:   s.opts.Fill,
		Strict: s.opts.Strict,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rectify image: %w", err)
	}
	s.log.Debug("rectified page",
		"width", s.opts.PageWidth,
		"height", s.opts.PageHeight,
		"corners", det.Corners.Points)

	return &Result{Page: page, Detection: det, Homography: h}, nil
}

// Rectify returns the rectified page for img. See Scan.
func (s *Scanner) Rectify(img image.Image) (image.Image, error) {
	res, err := s.Scan(img)
	if err != nil {
		return nil, err
	}
	return res.Page, nil
}

// CheckOutput verifies that a page can be saved to out without replacing
// the photograph at in.
func CheckOutput(in, out string) error {
	if !imaging.Writable(out) {
		return fmt.Errorf("%w: %s", ErrUnwritableFormat, out)
	}
	if samePath(in, out) {
		return fmt.Errorf("%w: %s", ErrOutputIsInput, out)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// ScanFile loads the photograph at in, rectifies it and saves the page to
// out. The output format follows the extension of out. Nothing is written
// unless the whole pipeline succeeds, and out is checked with CheckOutput
// before any work is done.
func (s *Scanner) ScanFile(ctx context.Context, in, out string) (*Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckOutput(in, out); err != nil {
		return nil, err
	}
	img, err := imaging.Open(in)
	if err != nil {
		return nil, err
	}

	res, err := s.Scan(img)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := imaging.Save(res.Page, out); err != nil {
		return nil, err
	}
	s.log.Info("saved page", "input", in, "output", out)
	return res.Detection, nil
}

// Rectify rectifies img with DefaultOptions.
func Rectify(img image.Image) (image.Image, error) {
	return New(DefaultOptions()).Rectify(img)
}
