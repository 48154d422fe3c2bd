// Package transcript turns OCR observations into the text written for a page.
//
// It holds the geometric observation filter and the assembler that joins
// accepted lines with sentence-aware line breaks.
package transcript

import "github.com/ironsheep/comic-ocr/internal/ocr"

// Thresholds of the observation filter. They are empirical and kept as-is.
const (
	// MinWidthToHeight is the smallest width/height ratio of a line-like box.
	MinWidthToHeight = 0.4

	// LargeBoxSide is the normalized side length both dimensions must
	// exceed for a box to be kept regardless of its shape.
	LargeBoxSide = 0.1
)

// Accept reports whether o is plausible text.
//
// Wide, line-like boxes pass on their shape alone. Narrow boxes pass only
// when both sides exceed LargeBoxSide, which keeps big stylized lettering.
// Everything else, mostly thin vertical artifacts, is dropped. Observations
// without any candidate carry no text and are never accepted.
func Accept(o ocr.Observation) bool {
	if len(o.Candidates) == 0 {
		return false
	}
	w := o.BoundingBox.Width
	h := o.BoundingBox.Height
	return w >= h*MinWidthToHeight || (w > LargeBoxSide && h > LargeBoxSide)
}

// Filter returns the accepted observations of obs in their original order.
func Filter(obs []ocr.Observation) []ocr.Observation {
	accepted := make([]ocr.Observation, 0, len(obs))
	for _, o := range obs {
		if Accept(o) {
			accepted = append(accepted, o)
		}
	}
	return accepted
}
