// Package region plans the horizontal regions of interest a comic page is
// split into before OCR.
//
// # Coordinate System
//
// ROIs are normalized to [0,1] on both axes and are independent of pixel
// resolution. The origin is the BOTTOM-LEFT corner of the page and Y grows
// upward, so the topmost band of a page has the largest Y.
//
// # Ordering
//
// Plan returns ROIs in reading order: top band first. Text assembly relies on
// the slice index being the reading order, so callers must not re-sort.
package region

import (
	"fmt"
	"math"

	ocrerrors "github.com/ironsheep/comic-ocr/internal/errors"
)

// SplitAspectRatio is the width/height ratio at and above which a page is
// treated as a single panoramic strip instead of two stacked halves.
const SplitAspectRatio = 2.5

// ROI is a normalized rectangle with a bottom-left origin.
type ROI struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Full covers the whole page.
var Full = ROI{X: 0, Y: 0, Width: 1, Height: 1}

// epsilon absorbs float rounding in 1/n band arithmetic.
const epsilon = 1e-9

// Valid reports whether r lies inside the unit square with positive area.
func (r ROI) Valid() bool {
	return r.Width > 0 && r.Height > 0 &&
		r.X >= 0 && r.Y >= 0 &&
		r.X+r.Width <= 1+epsilon && r.Y+r.Height <= 1+epsilon
}

// Top returns the upper edge of r.
func (r ROI) Top() float64 { return r.Y + r.Height }

func (r ROI) String() string {
	return fmt.Sprintf("(x=%.3f y=%.3f w=%.3f h=%.3f)", r.X, r.Y, r.Width, r.Height)
}

// Plan computes the ordered ROIs for a page of the given dimensions.
//
// When rows > 1 the page is cut into rows equal full-width bands, topmost
// first. Otherwise the aspect ratio decides: below SplitAspectRatio the page
// is split into a top and a bottom half, at or above it the whole page is a
// single region.
//
// Only the ratio of width to height matters, so any unit works. A
// non-positive or non-finite dimension yields an InvalidDimensions error.
func Plan(width, height float64, rows int) ([]ROI, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, ocrerrors.NewInvalidDimensionsError(width, height)
	}

	if rows > 1 {
		return Rows(rows), nil
	}

	if width/height < SplitAspectRatio {
		return []ROI{
			{X: 0, Y: 0.5, Width: 1, Height: 0.5},
			{X: 0, Y: 0, Width: 1, Height: 0.5},
		}, nil
	}
	return []ROI{Full}, nil
}

// Rows returns n full-width bands of height 1/n, topmost first. n < 1 is
// treated as 1.
func Rows(n int) []ROI {
	if n < 1 {
		n = 1
	}
	rowHeight := 1.0 / float64(n)
	rois := make([]ROI, 0, n)
	for i := 0; i < n; i++ {
		y := 1.0 - rowHeight*float64(i+1)
		if y < 0 {
			y = 0
		}
		rois = append(rois, ROI{X: 0, Y: y, Width: 1, Height: rowHeight})
	}
	return rois
}
