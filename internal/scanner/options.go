package scanner

import (
	"image/color"
	"log/slog"

	"github.com/ironsheep/doc-scanner/internal/detection"
	"github.com/ironsheep/doc-scanner/internal/imaging"
	"github.com/ironsheep/doc-scanner/internal/rectify"
)

// Options configures a Scanner. Zero fields take the value from
// DefaultOptions.
type Options struct {
	// MinWorkingWidth is the width the working copy is reduced towards.
	MinWorkingWidth int

	// MaxScale caps the reduction factor.
	MaxScale float64

	// LineDivisor sets the Hough vote threshold and minimum segment length
	// to working width / LineDivisor.
	LineDivisor int

	// MaxLineGap is the largest gap, in working pixels, bridged within one
	// segment.
	MaxLineGap int

	// PageWidth and PageHeight are the output size in pixels.
	PageWidth  int
	PageHeight int

	// Fill colors output pixels outside the photograph.
	Fill color.Color

	// Strict turns degenerate corners and singular transforms into errors.
	Strict bool

	// Logger receives stage summaries at debug level and geometry
	// fallbacks at warn level. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the standard scanner parameters: a 200 pixel working
// width capped at a scale of 10, Hough thresholds of a third of the working
// width with 20 pixel gaps, and an A4 page at 200 ppi on black.
func DefaultOptions() Options {
	return Options{
		MinWorkingWidth: imaging.DefaultMinWorkingWidth,
		MaxScale:        imaging.DefaultMaxScale,
		LineDivisor:     detection.DefaultLineDivisor,
		MaxLineGap:      detection.DefaultMaxLineGap,
		PageWidth:       rectify.PageWidth,
		PageHeight:      rectify.PageHeight,
		Fill:            color.Black,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinWorkingWidth <= 0 {
		o.MinWorkingWidth = d.MinWorkingWidth
	}
	if o.MaxScale <= 0 {
		o.MaxScale = d.MaxScale
	}
	if o.LineDivisor <= 0 {
		o.LineDivisor = d.LineDivisor
	}
	if o.MaxLineGap <= 0 {
		o.MaxLineGap = d.MaxLineGap
	}
	if o.PageWidth <= 0 {
		o.PageWidth = d.PageWidth
	}
	if o.PageHeight <= 0 {
		o.PageHeight = d.PageHeight
	}
	if o.Fill == nil {
		o.Fill = d.Fill
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// houghParams returns the line detector parameters for a working width.
func (o Options) houghParams(width int) detection.HoughParams {
	return detection.NewHoughParams(width, o.LineDivisor, o.MaxLineGap)
}
