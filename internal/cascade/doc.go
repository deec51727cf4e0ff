// Package cascade loads pretrained shape detectors and adapts them to
// detection.ShapeDetector.
//
// Pico cascades (github.com/esimov/pigo) work in every build. OpenCV XML
// cascades need the gocv build tag and a local OpenCV installation.
// Built-in contour heuristics are available by name for screens that have
// no trained model.
package cascade
