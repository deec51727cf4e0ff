package detection

import (
	"image"
	"math"
)

// Surface is a similarity map produced by template correlation.
//
// Values are stored row-major. The value at (x, y) scores the template
// placed with its top-left corner at Origin + (x, y) in source image
// coordinates.
type Surface struct {
	Width  int
	Height int
	Origin image.Point
	Values []float32
}

// NewSurface allocates a zeroed width x height surface anchored at the origin.
func NewSurface(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Surface{
		Width:  width,
		Height: height,
		Values: make([]float32, width*height),
	}
}

// At returns the value at (x, y). No bounds checking is performed.
func (s *Surface) At(x, y int) float32 {
	return s.Values[y*s.Width+x]
}

// Set stores v at (x, y). No bounds checking is performed.
func (s *Surface) Set(x, y int, v float32) {
	s.Values[y*s.Width+x] = v
}

// Len returns the number of cells.
func (s *Surface) Len() int {
	return len(s.Values)
}

// Clone returns a deep copy.
func (s *Surface) Clone() *Surface {
	out := &Surface{
		Width:  s.Width,
		Height: s.Height,
		Origin: s.Origin,
		Values: make([]float32, len(s.Values)),
	}
	copy(out.Values, s.Values)
	return out
}

// Normalize rescales values in place to [0, 1] using min-max scaling.
// NaN cells are ignored when finding the range and become 0. A constant
// surface carries no ranking information and becomes all zeros.
func (s *Surface) Normalize() {
	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, v := range s.Values {
		if v != v {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := float64(hi) - float64(lo)
	if math.IsNaN(span) || math.IsInf(span, 0) || span <= 0 {
		for i := range s.Values {
			s.Values[i] = 0
		}
		return
	}
	for i, v := range s.Values {
		if v != v {
			s.Values[i] = 0
			continue
		}
		s.Values[i] = float32((float64(v) - float64(lo)) / span)
	}
}
