// Package contour holds built-in shape detectors that need no trained
// model: Boxes finds rectangular widget outlines and TextBlocks finds text
// lines. Both work on an edge map derived from the grayscale screenshot
// and satisfy detection.ShapeDetector, so they run through the same
// acceptance pipeline as cascades.
//
// They are heuristics. Expect more candidates than a trained cascade and
// rely on the pipeline's limit guard and overlap policy to thin them.
package contour
