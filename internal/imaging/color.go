package imaging

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor parses a CSS-style hex color into an opaque color.RGBA.
//
// Accepted forms are "#RRGGBB", "#RGB", and the same without the leading '#'.
// The rectifier uses the result to fill destination pixels whose source
// position falls outside the photograph.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimSpace(s)
	if hex == "" {
		return color.RGBA{}, fmt.Errorf("invalid hex color: empty string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
