package contour

import (
	"image"
	"image/color"
	"testing"
)

func whiteGray(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// outline draws a 1px black rectangle with corners (x1,y1) and (x2,y2) inclusive.
func outline(img *image.Gray, x1, y1, x2, y2 int) {
	for x := x1; x <= x2; x++ {
		img.SetGray(x, y1, color.Gray{})
		img.SetGray(x, y2, color.Gray{})
	}
	for y := y1; y <= y2; y++ {
		img.SetGray(x1, y, color.Gray{})
		img.SetGray(x2, y, color.Gray{})
	}
}

// circle draws a 1px black circle outline with the midpoint algorithm.
func circle(img *image.Gray, cx, cy, radius int) {
	x, y, e := radius, 0, 0
	for x >= y {
		for _, p := range []image.Point{
			{cx + x, cy + y}, {cx + y, cy + x}, {cx - y, cy + x}, {cx - x, cy + y},
			{cx - x, cy - y}, {cx - y, cy - x}, {cx + y, cy - x}, {cx + x, cy - y},
		} {
			img.SetGray(p.X, p.Y, color.Gray{})
		}
		if e <= 0 {
			y++
			e += 2*y + 1
		}
		if e > 0 {
			x--
			e -= 2*x + 1
		}
	}
}

func TestEdges_UniformImage(t *testing.T) {
	m := Edges(whiteGray(20, 20), DefaultEdgeThreshold)
	for i, e := range m.Pix {
		if e {
			t.Fatalf("uniform image has edge at index %d", i)
		}
	}
}

func TestEdges_StepAndCount(t *testing.T) {
	img := whiteGray(20, 20)
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			img.SetGray(x, y, color.Gray{})
		}
	}
	m := Edges(img, DefaultEdgeThreshold)
	if !m.At(9, 5) {
		t.Error("expected edge left of the step")
	}
	if m.At(0, 5) || m.At(9, 0) {
		t.Error("border pixels must never be edges")
	}
	if m.At(-1, 3) || m.At(25, 3) {
		t.Error("out of range reads must be false")
	}
	if got := m.Count(image.Rect(0, 0, 20, 20)); got != 18 {
		t.Errorf("Count: got %d, want 18", got)
	}
}

func TestComponents_SeparatesShapes(t *testing.T) {
	img := whiteGray(120, 60)
	outline(img, 10, 10, 40, 40)
	outline(img, 70, 10, 100, 40)

	comps := Components(Edges(img, DefaultEdgeThreshold), 10)
	if len(comps) != 2 {
		t.Fatalf("components: got %d, want 2", len(comps))
	}
	if comps[0].Box.Min.X > comps[1].Box.Min.X {
		t.Error("components should come out in scan order")
	}
}

func TestBoxes_FindsOutline(t *testing.T) {
	img := whiteGray(100, 100)
	outline(img, 20, 20, 80, 80)

	rects, err := DefaultBoxes().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(rects) != 1 {
		t.Fatalf("rects: got %d, want 1 (%v)", len(rects), rects)
	}
	r := rects[0]
	if r.Min.X < 18 || r.Min.X > 21 || r.Max.X < 80 || r.Max.X > 83 {
		t.Errorf("box %v does not match outline (20,20)-(80,80)", r)
	}
}

func TestBoxes_IgnoresCircle(t *testing.T) {
	img := whiteGray(100, 100)
	circle(img, 50, 50, 30)

	rects, err := DefaultBoxes().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(rects) != 0 {
		t.Errorf("circle reported as box: %v", rects)
	}
}

func TestBoxes_LargestFirstAndOffset(t *testing.T) {
	img := whiteGray(200, 120)
	outline(img, 10, 10, 40, 40)
	outline(img, 60, 10, 180, 100)
	img.Rect = img.Rect.Add(image.Pt(5, 5))

	rects, err := DefaultBoxes().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(rects) != 2 {
		t.Fatalf("rects: got %d, want 2", len(rects))
	}
	if rects[0].Dx() < rects[1].Dx() {
		t.Errorf("expected largest box first, got %v", rects)
	}
	if rects[0].Min.X < 63 {
		t.Errorf("box not translated by image origin: %v", rects[0])
	}
}

func TestBoxes_MinArea(t *testing.T) {
	img := whiteGray(60, 60)
	outline(img, 10, 10, 20, 20)

	rects, _ := DefaultBoxes().Detect(img)
	if len(rects) != 0 {
		t.Errorf("box under MinArea reported: %v", rects)
	}
}

func TestTextBlocks_UniformImage(t *testing.T) {
	rects, err := DefaultTextBlocks().Detect(whiteGray(300, 200))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(rects) != 0 {
		t.Errorf("uniform image produced text blocks: %v", rects)
	}
}

func TestTextBlocks_GlyphStems(t *testing.T) {
	img := whiteGray(300, 120)
	// Rows of short vertical bars resemble glyph stems on a text line.
	for y := 40; y < 60; y++ {
		for x := 20; x < 260; x += 6 {
			img.SetGray(x, y, color.Gray{})
			img.SetGray(x+1, y, color.Gray{})
		}
	}

	rects, err := (&TextBlocks{MinConfidence: 0.3, EdgeThreshold: DefaultEdgeThreshold}).Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(rects) == 0 {
		t.Fatal("expected at least one text block")
	}
	hit := false
	for _, r := range rects {
		if r.Overlaps(image.Rect(20, 40, 260, 60)) {
			hit = true
		}
	}
	if !hit {
		t.Errorf("no block overlaps the glyph area: %v", rects)
	}
}

func TestMergeBlocks(t *testing.T) {
	blocks := []textBlock{
		{rect: image.Rect(0, 0, 10, 10), confidence: 0.5},
		{rect: image.Rect(5, 5, 20, 20), confidence: 0.9},
		{rect: image.Rect(50, 50, 60, 60), confidence: 0.7},
	}
	merged := mergeBlocks(blocks)
	if len(merged) != 2 {
		t.Fatalf("merged: got %d, want 2", len(merged))
	}
	if merged[0].rect != image.Rect(0, 0, 20, 20) || merged[0].confidence != 0.9 {
		t.Errorf("first merged block: %+v", merged[0])
	}
}
