package rectify

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/doc-scanner/internal/detection"
)

// createPattern returns an opaque image whose pixels encode their position.
func createPattern(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x + y) * 3), A: 255})
		}
	}
	return img
}

func sameImage(t *testing.T, got, want *image.RGBA) {
	t.Helper()
	if got.Bounds().Size() != want.Bounds().Size() {
		t.Fatalf("size: got %v, want %v", got.Bounds().Size(), want.Bounds().Size())
	}
	b := want.Bounds()
	for y := range b.Dy() {
		for x := range b.Dx() {
			g := got.RGBAAt(got.Rect.Min.X+x, got.Rect.Min.Y+y)
			w := want.RGBAAt(b.Min.X+x, b.Min.Y+y)
			if g != w {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestWarp_Identity(t *testing.T) {
	src := createPattern(40, 30)

	got := Warp(src, Identity, 40, 30, color.White)

	sameImage(t, got, src)
}

func TestWarp_OffsetSource(t *testing.T) {
	parent := createPattern(60, 50)
	src := parent.SubImage(image.Rect(10, 5, 50, 35)).(*image.RGBA)

	got := Warp(src, Identity, 40, 30, color.Black)

	sameImage(t, got, src)
}

func TestWarp_Translation(t *testing.T) {
	src := createPattern(40, 30)
	shift := Homography{1, 0, 5, 0, 1, 3, 0, 0, 1}

	got := Warp(src, shift, 20, 20, color.Black)

	if g, w := got.RGBAAt(0, 0), src.RGBAAt(5, 3); g != w {
		t.Errorf("pixel (0,0): got %v, want %v", g, w)
	}
	if g, w := got.RGBAAt(19, 19), src.RGBAAt(24, 22); g != w {
		t.Errorf("pixel (19,19): got %v, want %v", g, w)
	}
}

func TestWarp_HalfPixelBlends(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	src.SetRGBA(1, 0, color.RGBA{200, 100, 50, 255})
	half := Homography{1, 0, 0.5, 0, 1, 0, 0, 0, 1}

	got := Warp(src, half, 1, 1, color.Black)

	want := color.RGBA{100, 50, 25, 255}
	if g := got.RGBAAt(0, 0); g != want {
		t.Errorf("got %v, want %v", g, want)
	}
}

func TestWarp_OutsideUsesFill(t *testing.T) {
	src := createPattern(40, 30)
	fill := color.RGBA{10, 20, 30, 255}
	far := Homography{1, 0, -1000, 0, 1, -1000, 0, 0, 1}

	got := Warp(src, far, 16, 8, fill)

	for y := range 8 {
		for x := range 16 {
			if g := got.RGBAAt(x, y); g != fill {
				t.Fatalf("pixel (%d,%d): got %v, want fill %v", x, y, g, fill)
			}
		}
	}
}

func TestWarp_NilFillIsBlack(t *testing.T) {
	src := createPattern(4, 4)
	far := Homography{1, 0, 100, 0, 1, 100, 0, 0, 1}

	got := Warp(src, far, 2, 2, nil)

	if g := got.RGBAAt(1, 1); g != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("got %v, want opaque black", g)
	}
}

func TestRectify_DefaultPageSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 400))
	corners := [4]detection.PointF{{20, 30}, {280, 10}, {10, 390}, {290, 380}}

	got, _, err := Rectify(src, corners, Params{})
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}
	if size := got.Bounds().Size(); size != image.Pt(PageWidth, PageHeight) {
		t.Errorf("size: got %v, want %dx%d", size, PageWidth, PageHeight)
	}
}

func TestRectify_FlatPageIsUnchanged(t *testing.T) {
	src := createPattern(165, 233)

	got, h, err := Rectify(src, TargetCorners(165, 233), Params{Width: 165, Height: 233})
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}

	for i := range h {
		if !near(h[i], Identity[i]) {
			t.Errorf("h[%d] = %v, want identity", i, h[i])
		}
	}
	sameImage(t, got, src)
}

func TestRectify_SingularLenient(t *testing.T) {
	src := createPattern(50, 50)
	src.SetRGBA(0, 0, color.RGBA{9, 8, 7, 255})
	corners := [4]detection.PointF{detection.Sentinel(), detection.Sentinel(), detection.Sentinel(), detection.Sentinel()}

	got, h, err := Rectify(src, corners, Params{Width: 20, Height: 30})
	if err != nil {
		t.Fatalf("lenient Rectify should not fail: %v", err)
	}
	if h != zeroTransform {
		t.Errorf("transform: got %v, want zero", h)
	}
	if size := got.Bounds().Size(); size != image.Pt(20, 30) {
		t.Errorf("size: got %v, want 20x30", size)
	}
	for y := range 30 {
		for x := range 20 {
			if g := got.RGBAAt(x, y); g != (color.RGBA{9, 8, 7, 255}) {
				t.Fatalf("pixel (%d,%d): got %v, want source origin", x, y, g)
			}
		}
	}
}

func TestRectify_SingularStrict(t *testing.T) {
	src := createPattern(50, 50)

	_, _, err := Rectify(src, [4]detection.PointF{}, Params{Strict: true})
	if !errors.Is(err, ErrSingularHomography) {
		t.Errorf("got error %v, want ErrSingularHomography", err)
	}
}
