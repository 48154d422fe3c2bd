// Package ocr adapts OCR engines to the per-region recognition contract used
// by comic-ocr.
//
// A Recognizer receives the FULL page image plus one region of interest and
// returns the text observations found inside that region. Observation
// bounding boxes are normalized to the whole page with a bottom-left origin,
// the same space as region.ROI, so geometric filters see comparable sizes
// regardless of how the page was split.
//
// # Backends
//
// Tesseract (via gosseract/v2) is the production backend. It crops the region,
// runs line-level recognition and maps each text line's box back to page
// coordinates. Each line becomes one Observation with a single Candidate.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language passed in Options.
//
// # Ordering
//
// Observations are returned in the order the engine reports them. No
// positional re-sorting is applied.
//
// # Error Handling
//
// Engine failures are returned as plain wrapped errors. The batch driver
// reports them as RECOGNITION_FAILED for the region index it was working on
// and carries on with the next region.
package ocr
