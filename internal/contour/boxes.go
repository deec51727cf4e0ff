package contour

import (
	"image"
	"sort"
)

// Boxes finds axis-aligned rectangular outlines, such as buttons, panels
// and input fields, from edge contours. It satisfies detection.ShapeDetector.
//
// # Algorithm
//
//  1. Edge map from gray level steps above EdgeThreshold
//  2. 8-connected components of edge pixels
//  3. Each component is scored by rectangularity (see below)
//  4. Boxes under MinArea or scoring below Tolerance are dropped
//
// # Rectangularity Score
//
// The score multiplies two fractions: the share of the component's pixels
// that lie within two pixels of its bounding box border, and the share of
// border positions that carry at least one of those pixels. An outline
// scores close to 1.0. A circle touches its box only at four tangents and
// scores low, and so does a filled blob of texture.
//
// Output is sorted by area, largest first. Rotated rectangles are not found.
type Boxes struct {
	// MinArea is the smallest box area in square pixels. Typical: 100-1000.
	MinArea int

	// Tolerance is the lowest accepted rectangularity, 0.0 to 1.0.
	Tolerance float64

	// EdgeThreshold is the gray step that counts as an edge.
	EdgeThreshold int
}

// DefaultBoxes returns a detector tuned for flat UI widgets.
func DefaultBoxes() *Boxes {
	return &Boxes{
		MinArea:       400,
		Tolerance:     0.85,
		EdgeThreshold: DefaultEdgeThreshold,
	}
}

// Detect implements detection.ShapeDetector.
func (b *Boxes) Detect(gray *image.Gray) ([]image.Rectangle, error) {
	edges := Edges(gray, b.EdgeThreshold)
	offset := gray.Bounds().Min

	found := make([]image.Rectangle, 0)
	for _, c := range Components(edges, 10) {
		if c.Box.Dx() < 4 || c.Box.Dy() < 4 || c.Box.Dx()*c.Box.Dy() < b.MinArea {
			continue
		}
		if rectangularity(c) < b.Tolerance {
			continue
		}
		found = append(found, c.Box.Add(offset))
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Dx()*found[i].Dy() > found[j].Dx()*found[j].Dy()
	})
	return found, nil
}

const borderBand = 2

func rectangularity(c Component) float64 {
	w, h := c.Box.Dx(), c.Box.Dy()
	if len(c.Points) == 0 || w == 0 || h == 0 {
		return 0
	}

	top := make([]bool, w)
	bottom := make([]bool, w)
	left := make([]bool, h)
	right := make([]bool, h)

	onBorder := 0
	for _, p := range c.Points {
		x, y := p.X-c.Box.Min.X, p.Y-c.Box.Min.Y
		near := false
		if y < borderBand {
			top[x], near = true, true
		}
		if y >= h-borderBand {
			bottom[x], near = true, true
		}
		if x < borderBand {
			left[y], near = true, true
		}
		if x >= w-borderBand {
			right[y], near = true, true
		}
		if near {
			onBorder++
		}
	}

	covered := countTrue(top) + countTrue(bottom) + countTrue(left) + countTrue(right)
	coverage := float64(covered) / float64(2*(w+h))
	return float64(onBorder) / float64(len(c.Points)) * coverage
}

func countTrue(v []bool) int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}
