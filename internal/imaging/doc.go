// Package imaging loads comic pages and cuts them into regions for OCR.
//
// Pages are decoded with the standard image decoders for PNG, JPEG and GIF.
// Regions of interest arrive as normalized rectangles with a bottom-left
// origin (see package region) and are converted here to pixel rectangles in
// Go's native top-left coordinate system:
//
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For pixel rectangles, Min is inclusive and Max is exclusive
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and may be called concurrently on different images.
//
// # Error Handling
//
// Load failures are reported as IMAGE_LOAD_FAILED pipeline errors carrying
// the offending path. Crops that map to an empty pixel rectangle return an
// error instead of an empty image.
package imaging
