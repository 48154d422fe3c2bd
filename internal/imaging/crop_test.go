package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/comic-ocr/internal/region"
)

// createBandedImage returns an image whose top half is black and bottom half
// is white.
func createBandedImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if y < height/2 {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPixelRect(t *testing.T) {
	bounds := image.Rect(0, 0, 200, 100)

	tests := []struct {
		name string
		roi  region.ROI
		want image.Rectangle
	}{
		{"full", region.Full, image.Rect(0, 0, 200, 100)},
		{"top half", region.ROI{X: 0, Y: 0.5, Width: 1, Height: 0.5}, image.Rect(0, 0, 200, 50)},
		{"bottom half", region.ROI{X: 0, Y: 0, Width: 1, Height: 0.5}, image.Rect(0, 50, 200, 100)},
		{"top third", region.Rows(3)[0], image.Rect(0, 0, 200, 33)},
		{"right quarter", region.ROI{X: 0.75, Y: 0, Width: 0.25, Height: 1}, image.Rect(150, 0, 200, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PixelRect(bounds, tt.roi); got != tt.want {
				t.Errorf("PixelRect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPixelRect_OffsetBounds(t *testing.T) {
	bounds := image.Rect(10, 20, 110, 120)
	got := PixelRect(bounds, region.ROI{X: 0, Y: 0.5, Width: 1, Height: 0.5})
	if want := image.Rect(10, 20, 110, 70); got != want {
		t.Errorf("PixelRect = %v, want %v", got, want)
	}
}

func TestPixelRect_RowsTileImage(t *testing.T) {
	bounds := image.Rect(0, 0, 97, 301)
	next := 0
	for i, roi := range region.Rows(7) {
		r := PixelRect(bounds, roi)
		if r.Min.Y != next {
			t.Errorf("band %d starts at %d, want %d", i, r.Min.Y, next)
		}
		next = r.Max.Y
	}
	if next != 301 {
		t.Errorf("bands end at %d, want 301", next)
	}
}

func TestNormalizedRect_RoundTrip(t *testing.T) {
	bounds := image.Rect(0, 0, 400, 200)
	px := image.Rect(100, 20, 300, 60)

	n := NormalizedRect(bounds, px)
	want := region.ROI{X: 0.25, Y: 0.7, Width: 0.5, Height: 0.2}
	const eps = 1e-9
	if abs(n.X-want.X) > eps || abs(n.Y-want.Y) > eps || abs(n.Width-want.Width) > eps || abs(n.Height-want.Height) > eps {
		t.Errorf("NormalizedRect = %v, want %v", n, want)
	}
	if back := PixelRect(bounds, n); back != px {
		t.Errorf("round trip = %v, want %v", back, px)
	}
}

func TestNormalizedRect_EmptyBounds(t *testing.T) {
	if got := NormalizedRect(image.Rectangle{}, image.Rect(0, 0, 1, 1)); got != (region.ROI{}) {
		t.Errorf("expected zero ROI, got %v", got)
	}
}

func TestCropROI(t *testing.T) {
	img := createBandedImage(100, 100)

	top, rect, err := CropROI(img, region.ROI{X: 0, Y: 0.5, Width: 1, Height: 0.5})
	if err != nil {
		t.Fatalf("CropROI failed: %v", err)
	}
	if rect != image.Rect(0, 0, 100, 50) {
		t.Errorf("rect = %v", rect)
	}
	if b := top.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("crop size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
	// The top band of the page is black.
	if r, _, _, _ := top.At(50, 25).RGBA(); r != 0 {
		t.Errorf("top crop should be black, got r=%d", r)
	}

	bottom, _, err := CropROI(img, region.ROI{X: 0, Y: 0, Width: 1, Height: 0.5})
	if err != nil {
		t.Fatalf("CropROI failed: %v", err)
	}
	if r, _, _, _ := bottom.At(50, 25).RGBA(); r != 0xffff {
		t.Errorf("bottom crop should be white, got r=%d", r)
	}
}

func TestCropROI_Empty(t *testing.T) {
	img := createBandedImage(10, 10)
	if _, _, err := CropROI(img, region.ROI{X: 0, Y: 0, Width: 0.01, Height: 0.01}); err == nil {
		t.Error("CropROI should fail for a region smaller than a pixel")
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(createBandedImage(30, 20))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
		t.Errorf("decoded size = %dx%d", b.Dx(), b.Dy())
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
