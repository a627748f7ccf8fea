package rectify

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/doc-scanner/internal/detection"
)

// A4 at 200 pixels per inch.
const (
	PageWidth  = 1654
	PageHeight = 2339
)

// Params configures Rectify.
type Params struct {
	// Width and Height are the output size; PageWidth and PageHeight if <= 0.
	Width  int
	Height int

	// Fill colors output pixels whose source falls outside the photograph.
	// Nil means opaque black.
	Fill color.Color

	// Strict makes Rectify fail on a singular transform instead of
	// producing a uniform image.
	Strict bool
}

// TargetCorners returns the corners of a width x height rectangle in
// top-left, top-right, bottom-left, bottom-right order.
func TargetCorners(width, height int) [4]detection.PointF {
	w, h := float64(width-1), float64(height-1)
	return [4]detection.PointF{
		detection.TopLeft:     {X: 0, Y: 0},
		detection.TopRight:    {X: w, Y: 0},
		detection.BottomLeft:  {X: 0, Y: h},
		detection.BottomRight: {X: w, Y: h},
	}
}

// Rectify maps the quadrilateral corners of src (full-resolution coordinates,
// ordered as in detection.Corners) onto an upright p.Width x p.Height image.
//
// The second return value is the forward transform from src to the output.
//
// When the corners do not define a transform, Rectify returns
// ErrSingularHomography in strict mode. Otherwise it warps with the zero
// transform, which samples the source origin for every output pixel.
func Rectify(src image.Image, corners [4]detection.PointF, p Params) (*image.RGBA, Homography, error) {
	if p.Width <= 0 {
		p.Width = PageWidth
	}
	if p.Height <= 0 {
		p.Height = PageHeight
	}

	h, err := ComputeHomography(corners, TargetCorners(p.Width, p.Height))
	var inv Homography
	if err == nil {
		inv, err = h.Inverse()
	}
	if err != nil {
		if p.Strict {
			return nil, Homography{}, err
		}
		h, inv = zeroTransform, zeroTransform
	}

	return Warp(src, inv, p.Width, p.Height, p.Fill), h, nil
}

// Warp produces a width x height image whose pixel (x, y) is src sampled at
// inv(x, y), with bilinear interpolation. inv maps output coordinates to
// source coordinates relative to the top-left of src's bounds.
//
// Neighbours that fall outside src contribute fill, so edges of the
// photograph blend smoothly into the background.
func Warp(src image.Image, inv Homography, width, height int, fill color.Color) *image.RGBA {
	if fill == nil {
		fill = color.Black
	}
	bg := color.RGBAModel.Convert(fill).(color.RGBA)
	bgPix := [4]float64{float64(bg.R), float64(bg.G), float64(bg.B), float64(bg.A)}

	in := clone.AsRGBA(src)
	ib := in.Bounds()
	sw, sh := ib.Dx(), ib.Dy()

	// texel returns the four channels of the source pixel at (x, y), or the
	// fill color outside the image.
	texel := func(x, y int) [4]float64 {
		if x < 0 || y < 0 || x >= sw || y >= sh {
			return bgPix
		}
		i := in.PixOffset(ib.Min.X+x, ib.Min.Y+y)
		s := in.Pix[i : i+4 : i+4]
		return [4]float64{float64(s[0]), float64(s[1]), float64(s[2]), float64(s[3])}
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		row := out.Pix[y*out.Stride : y*out.Stride+width*4]
		for x := range width {
			sx, sy := inv.Apply(float64(x), float64(y))
			d := row[x*4 : x*4+4 : x*4+4]

			fx, fy := math.Floor(sx), math.Floor(sy)
			// Far outside (or NaN): no neighbour is inside the source.
			if !(fx >= -1 && fy >= -1 && fx < float64(sw) && fy < float64(sh)) {
				d[0], d[1], d[2], d[3] = bg.R, bg.G, bg.B, bg.A
				continue
			}

			x0, y0 := int(fx), int(fy)
			ax, ay := sx-fx, sy-fy
			p00 := texel(x0, y0)
			p10 := texel(x0+1, y0)
			p01 := texel(x0, y0+1)
			p11 := texel(x0+1, y0+1)
			for c := range 4 {
				top := p00[c] + (p10[c]-p00[c])*ax
				bot := p01[c] + (p11[c]-p01[c])*ax
				d[c] = uint8(clamp(math.Round(top+(bot-top)*ay), 0, 255))
			}
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
