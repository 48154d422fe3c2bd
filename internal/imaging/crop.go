package imaging

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	"github.com/ironsheep/comic-ocr/internal/region"
)

// PixelRect converts a normalized bottom-left ROI into the pixel rectangle it
// covers within bounds. Edges are rounded to the nearest pixel and the
// result is clipped to bounds.
func PixelRect(bounds image.Rectangle, roi region.ROI) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	x1 := bounds.Min.X + int(math.Round(roi.X*w))
	x2 := bounds.Min.X + int(math.Round((roi.X+roi.Width)*w))
	// Flip Y: the ROI's top edge is the smallest pixel row.
	y1 := bounds.Min.Y + int(math.Round((1-roi.Top())*h))
	y2 := bounds.Min.Y + int(math.Round((1-roi.Y)*h))

	return image.Rect(x1, y1, x2, y2).Intersect(bounds)
}

// NormalizedRect converts a pixel rectangle inside bounds back into a
// normalized bottom-left rectangle. It is the inverse of PixelRect up to
// rounding.
func NormalizedRect(bounds image.Rectangle, r image.Rectangle) region.ROI {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	if w == 0 || h == 0 {
		return region.ROI{}
	}
	return region.ROI{
		X:      float64(r.Min.X-bounds.Min.X) / w,
		Y:      1 - float64(r.Max.Y-bounds.Min.Y)/h,
		Width:  float64(r.Dx()) / w,
		Height: float64(r.Dy()) / h,
	}
}

// CropROI extracts the part of img covered by roi and returns it together
// with the pixel rectangle it was taken from.
func CropROI(img image.Image, roi region.ROI) (*image.NRGBA, image.Rectangle, error) {
	rect := PixelRect(img.Bounds(), roi)
	if rect.Empty() {
		return nil, rect, fmt.Errorf("region %v covers no pixels of a %dx%d image",
			roi, img.Bounds().Dx(), img.Bounds().Dy())
	}
	return imaging.Crop(img, rect), rect, nil
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
