package detection

import (
	"fmt"
	"image"
)

// Default extractor settings.
const (
	DefaultLimit     = 100
	DefaultThreshold = 0.98
)

// ExtractOptions configures candidate extraction.
type ExtractOptions struct {
	// Threshold is the normalized similarity a cell must strictly exceed.
	// Values of 0.97-0.99 work for pixel-exact UI templates.
	Threshold float64 `json:"threshold" validate:"gt=0,lt=1"`

	// Limit is the largest believable number of instances of one class.
	// A batch above it is treated as detector noise and dropped whole.
	Limit int `json:"limit" validate:"gt=0"`
}

// DefaultExtractOptions returns Threshold 0.98 and Limit 100.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		Threshold: DefaultThreshold,
		Limit:     DefaultLimit,
	}
}

func (o ExtractOptions) withDefaults() ExtractOptions {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// ExtractCandidates turns a similarity surface into template-sized
// candidate rectangles.
//
// The surface is normalized to [0, 1] on a copy, cells whose value is
// strictly greater than opts.Threshold survive, and each survivor at
// (x, y) becomes the rectangle of size templateSize anchored at
// surface.Origin + (x, y). Candidates come out in row-major scan order.
//
// Zero survivors, or more than opts.Limit survivors, both yield an empty
// slice with an advisory. An excessive batch is discarded entirely, not
// truncated: many hits on one template mean the match failed.
func ExtractCandidates(surface *Surface, templateSize image.Point, opts ExtractOptions) ([]image.Rectangle, Diagnostics) {
	opts = opts.withDefaults()
	if surface == nil || surface.Len() == 0 {
		return nil, Diagnostics{advise(CodeNoCandidates, image.Rectangle{},
			"haven't found this template on the image")}
	}

	normalized := surface.Clone()
	normalized.Normalize()

	threshold := float32(opts.Threshold)
	points := make([]image.Point, 0)
	for y := 0; y < normalized.Height; y++ {
		for x := 0; x < normalized.Width; x++ {
			if normalized.At(x, y) > threshold {
				points = append(points, image.Point{X: x, Y: y})
			}
		}
	}

	if len(points) == 0 {
		return nil, Diagnostics{advise(CodeNoCandidates, image.Rectangle{},
			"haven't found this template on the image")}
	}
	if len(points) > opts.Limit {
		return nil, Diagnostics{tooMany(len(points), opts.Limit)}
	}

	rects := make([]image.Rectangle, len(points))
	for i, p := range points {
		anchor := surface.Origin.Add(p)
		rects[i] = image.Rectangle{Min: anchor, Max: anchor.Add(templateSize)}
	}
	return rects, nil
}

// GuardLimit applies the same noise rule to an already rectangular
// candidate list, such as shape detector output.
func GuardLimit(rects []image.Rectangle, limit int) ([]image.Rectangle, Diagnostics) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(rects) == 0 {
		return nil, Diagnostics{advise(CodeNoCandidates, image.Rectangle{},
			"haven't found this element on the image")}
	}
	if len(rects) > limit {
		return nil, Diagnostics{tooMany(len(rects), limit)}
	}
	return rects, nil
}

func tooMany(n, limit int) Advisory {
	return Advisory{
		Code:    CodeTooManyCandidates,
		Message: fmt.Sprintf("discarded %d candidates, more than the limit of %d", n, limit),
	}
}
