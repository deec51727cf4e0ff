package contour

import (
	"image"
	"math"
	"sort"
)

// TextBlocks finds areas likely to hold a line of text: moderate edge
// density with mostly horizontal structure. It satisfies
// detection.ShapeDetector and is useful to locate captions and labels.
//
// Overlapping windows are merged, so neighbouring words come out as a
// single block. Output is sorted by confidence, highest first.
type TextBlocks struct {
	// MinConfidence is the lowest window score kept, 0.0 to 1.0.
	MinConfidence float64

	EdgeThreshold int
}

// DefaultTextBlocks returns a detector with MinConfidence 0.5.
func DefaultTextBlocks() *TextBlocks {
	return &TextBlocks{
		MinConfidence: 0.5,
		EdgeThreshold: DefaultEdgeThreshold,
	}
}

// Sliding window sizes in pixels, smallest text first.
var textWindows = []image.Point{
	{X: 80, Y: 25},
	{X: 100, Y: 30},
	{X: 150, Y: 40},
	{X: 200, Y: 50},
}

type textBlock struct {
	rect       image.Rectangle
	confidence float64
}

// Detect implements detection.ShapeDetector.
func (t *TextBlocks) Detect(gray *image.Gray) ([]image.Rectangle, error) {
	edges := Edges(gray, t.EdgeThreshold)
	offset := gray.Bounds().Min

	candidates := make([]textBlock, 0)
	for _, ws := range textWindows {
		stepX, stepY := ws.X/2, ws.Y/2
		for y := 0; y <= edges.Height-ws.Y; y += stepY {
			for x := 0; x <= edges.Width-ws.X; x += stepX {
				win := image.Rect(x, y, x+ws.X, y+ws.Y)
				density := float64(edges.Count(win)) / float64(ws.X*ws.Y)

				// Text is neither sparse nor solid.
				if density < 0.05 || density > 0.4 {
					continue
				}
				conf := horizontalScore(edges, win) * (1.0 - math.Abs(density-0.2)/0.2)
				if conf >= t.MinConfidence {
					candidates = append(candidates, textBlock{rect: win, confidence: conf})
				}
			}
		}
	}

	merged := mergeBlocks(candidates)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].confidence > merged[j].confidence
	})

	rects := make([]image.Rectangle, len(merged))
	for i, m := range merged {
		rects[i] = m.rect.Add(offset)
	}
	return rects, nil
}

// horizontalScore is the share of horizontal edge runs among all runs in r.
func horizontalScore(edges *EdgeMap, r image.Rectangle) float64 {
	horizontal, vertical := 0, 0

	for y := r.Min.Y; y < r.Max.Y; y++ {
		inRun := false
		for x := r.Min.X; x < r.Max.X; x++ {
			if edges.At(x, y) {
				if !inRun {
					horizontal++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		inRun := false
		for y := r.Min.Y; y < r.Max.Y; y++ {
			if edges.At(x, y) {
				if !inRun {
					vertical++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	if horizontal+vertical == 0 {
		return 0
	}
	return float64(horizontal) / float64(horizontal+vertical)
}

// mergeBlocks folds each block into the first earlier block it overlaps.
func mergeBlocks(blocks []textBlock) []textBlock {
	merged := make([]textBlock, 0, len(blocks))
	for _, b := range blocks {
		folded := false
		for i := range merged {
			if merged[i].rect.Overlaps(b.rect) {
				merged[i].rect = merged[i].rect.Union(b.rect)
				merged[i].confidence = math.Max(merged[i].confidence, b.confidence)
				folded = true
				break
			}
		}
		if !folded {
			merged = append(merged, b)
		}
	}
	return merged
}
