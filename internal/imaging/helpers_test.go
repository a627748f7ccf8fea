package imaging

import (
	"image"
	"image/color"
)

// createInMemoryImage creates a uniformly colored RGBA image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createGray creates a uniform gray image.
func createGray(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// createPageImage draws a light page rectangle on a dark background.
func createPageImage(width, height int, page image.Rectangle) *image.RGBA {
	img := createInMemoryImage(width, height, color.RGBA{40, 40, 40, 255})
	for y := page.Min.Y; y < page.Max.Y; y++ {
		for x := page.Min.X; x < page.Max.X; x++ {
			img.Set(x, y, color.RGBA{235, 235, 230, 255})
		}
	}
	return img
}

func countEdges(edges *image.Gray) int {
	n := 0
	for _, v := range edges.Pix {
		if v == 255 {
			n++
		}
	}
	return n
}
