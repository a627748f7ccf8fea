package scanner

import (
	"image"
	"image/color"
	"io"
	"log/slog"
)

func quietOptions() Options {
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

// createFlat returns a single-color image.
func createFlat(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// createPhoto returns a dark background with a light page covering page.
func createPhoto(width, height int, page image.Rectangle) *image.NRGBA {
	img := createFlat(width, height, color.NRGBA{40, 40, 40, 255})
	for y := page.Min.Y; y < page.Max.Y; y++ {
		for x := page.Min.X; x < page.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{230, 225, 215, 255})
		}
	}
	return img
}
