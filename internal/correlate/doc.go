// Package correlate scores every placement of a template patch over a
// grayscale screenshot and returns the similarity surface consumed by
// detection.MatchTemplates.
//
// NCC is always available. Building with -tags gocv adds OpenCV, which
// Default then prefers.
package correlate
