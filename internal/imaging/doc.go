// Package imaging wraps the pixel work around detection: decoding
// screenshots and templates, grayscale conversion, histogram equalization,
// region crops, and the labelled overlay drawn from accepted regions.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Rectangles follow
// image.Rectangle: Min is inclusive, Max is exclusive.
//
// Images decoded from files always start at (0,0). Grayscale and
// EqualizeHist keep the bounds of their input, so regions found on the gray
// image can be drawn on the original without translation.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions
// return new images and never modify their input.
//
// # Error Handling
//
// Functions return wrapped errors for:
//   - File I/O and decode failures
//   - Images with no pixels
//   - Crop regions that miss the image entirely
//   - Encoding errors during image output
package imaging
