package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/comic-ocr/internal/imaging"
	"github.com/ironsheep/comic-ocr/internal/region"
)

// DefaultLanguage is used when Options.Languages is empty.
const DefaultLanguage = "eng"

// Options configures the Tesseract backend.
type Options struct {
	// Languages are Tesseract language codes, e.g. "eng" or "deu".
	Languages []string

	// TessdataPrefix overrides the directory Tesseract loads training data
	// from. Empty keeps the library default.
	TessdataPrefix string

	// PageSegMode is a Tesseract page segmentation mode. Zero keeps the
	// library default.
	PageSegMode int
}

// Tesseract recognizes text regions with a gosseract client.
type Tesseract struct {
	opts          Options
	clientFactory func() *gosseract.Client
}

// NewTesseract constructs a Tesseract-backed recognizer.
func NewTesseract(opts Options) *Tesseract {
	if len(opts.Languages) == 0 {
		opts.Languages = []string{DefaultLanguage}
	}
	return &Tesseract{opts: opts, clientFactory: gosseract.NewClient}
}

// Recognize crops roi out of img and returns one observation per text line.
//
// Box coordinates reported by Tesseract are relative to the crop; they are
// shifted back onto the page and normalized before being returned.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, roi region.ROI) ([]Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cropped, rect, err := imaging.CropROI(img, roi)
	if err != nil {
		return nil, err
	}
	data, err := imaging.EncodePNG(cropped)
	if err != nil {
		return nil, err
	}

	client := t.clientFactory()
	defer client.Close()

	if err := t.configure(client); err != nil {
		return nil, err
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("failed to get text lines: %w", err)
	}

	return observationsFromBoxes(boxes, rect.Min, img.Bounds()), nil
}

func (t *Tesseract) configure(client *gosseract.Client) error {
	if t.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.opts.TessdataPrefix); err != nil {
			return fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(t.opts.Languages...); err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	if t.opts.PageSegMode != 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(t.opts.PageSegMode)); err != nil {
			return fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}
	return nil
}

// observationsFromBoxes converts crop-relative text-line boxes into page
// observations. offset is the crop's top-left corner within page.
// Lines with no text are skipped.
func observationsFromBoxes(boxes []gosseract.BoundingBox, offset image.Point, page image.Rectangle) []Observation {
	observations := make([]Observation, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimRight(box.Word, "\r\n")
		if text == "" {
			continue
		}
		observations = append(observations, Observation{
			BoundingBox: imaging.NormalizedRect(page, box.Box.Add(offset)),
			Candidates: []Candidate{{
				Text:       text,
				Confidence: box.Confidence / 100.0,
			}},
		})
	}
	return observations
}

// Info contains information about the OCR subsystem.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
}

// GetInfo returns information about OCR availability.
func GetInfo() Info {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	return Info{
		Available: version != "",
		Version:   version,
		Backend:   "gosseract",
	}
}
