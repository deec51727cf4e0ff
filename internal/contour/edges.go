package contour

import "image"

// DefaultEdgeThreshold is the gray level step that marks an edge pixel.
const DefaultEdgeThreshold = 30

// EdgeMap is a binary edge image laid out row-major, origin at (0, 0).
type EdgeMap struct {
	Width, Height int
	Pix           []bool
}

// At reports whether (x, y) is an edge pixel. Out-of-range reads are false.
func (m *EdgeMap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Count returns the number of edge pixels inside r.
func (m *EdgeMap) Count(r image.Rectangle) int {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[x] {
				n++
			}
		}
	}
	return n
}

// Edges marks pixels whose gray level differs from the right or lower
// neighbour by more than threshold. Border pixels are never edges.
func Edges(gray *image.Gray, threshold int) *EdgeMap {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	m := &EdgeMap{Width: w, Height: h, Pix: make([]bool, w*h)}

	for y := 1; y < h-1; y++ {
		row := gray.Pix[y*gray.Stride:]
		next := gray.Pix[(y+1)*gray.Stride:]
		for x := 1; x < w-1; x++ {
			c := int(row[x])
			if absInt(c-int(row[x+1])) > threshold || absInt(c-int(next[x])) > threshold {
				m.Pix[y*w+x] = true
			}
		}
	}
	return m
}

// Components groups 8-connected edge pixels, in scan order of the first
// pixel found.
// Groups smaller than minPixels are dropped.
func Components(m *EdgeMap, minPixels int) []Component {
	visited := make([]bool, len(m.Pix))
	out := make([]Component, 0)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			if !m.Pix[i] || visited[i] {
				continue
			}
			c := fill(m, visited, x, y)
			if len(c.Points) >= minPixels {
				out = append(out, c)
			}
		}
	}
	return out
}

// Component is one connected group of edge pixels.
type Component struct {
	Box    image.Rectangle
	Points []image.Point
}

// fill runs an iterative flood fill from (sx, sy).
func fill(m *EdgeMap, visited []bool, sx, sy int) Component {
	minX, minY, maxX, maxY := sx, sy, sx, sy
	points := make([]image.Point, 0)
	stack := []image.Point{{X: sx, Y: sy}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !m.At(p.X, p.Y) {
			continue
		}
		i := p.Y*m.Width + p.X
		if visited[i] {
			continue
		}
		visited[i] = true
		points = append(points, p)

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx != 0 || dy != 0 {
					stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
				}
			}
		}
	}
	return Component{Box: image.Rect(minX, minY, maxX+1, maxY+1), Points: points}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
