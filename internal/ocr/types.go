package ocr

import (
	"context"
	"image"

	"github.com/ironsheep/comic-ocr/internal/region"
)

// Candidate is one ranked reading of an observation.
type Candidate struct {
	// Text is the recognized string.
	Text string `json:"text"`

	// Confidence is the engine's confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// Observation is a piece of text detected inside a region.
type Observation struct {
	// BoundingBox encloses the text, normalized to the full page with a
	// bottom-left origin.
	BoundingBox region.ROI `json:"bounding_box"`

	// Candidates are ordered by descending confidence.
	Candidates []Candidate `json:"candidates"`
}

// Top returns the highest ranked candidate; ok is false when there is none.
func (o Observation) Top() (c Candidate, ok bool) {
	if len(o.Candidates) == 0 {
		return Candidate{}, false
	}
	return o.Candidates[0], true
}

// Recognizer runs OCR on img constrained to roi.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, roi region.ROI) ([]Observation, error)
}

// RecognizerFunc adapts a plain function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, img image.Image, roi region.ROI) ([]Observation, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image, roi region.ROI) ([]Observation, error) {
	return f(ctx, img, roi)
}
