package correlate

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/ui-detect/internal/detection"
)

// NCC is a pure-Go normalized cross-correlation matcher, equivalent to
// OpenCV's TM_CCORR_NORMED:
//
//	R(x,y) = Σ T(x',y')·I(x+x',y+y') / sqrt(Σ T(x',y')² · Σ I(x+x',y+y')²)
//
// The surface has one cell per placement of the template fully inside the
// image, (W-w+1) x (H-h+1), anchored at the image origin. A placement over
// an all-black window has no defined score and is reported as 0.
type NCC struct{}

// Correlate implements detection.Correlator.
func (NCC) Correlate(gray, template *image.Gray) (*detection.Surface, error) {
	if err := checkSizes(gray, template); err != nil {
		return nil, err
	}

	gb, tb := gray.Bounds(), template.Bounds()
	iw, ih := gb.Dx(), gb.Dy()
	tw, th := tb.Dx(), tb.Dy()

	img := toFloat(gray)
	tpl := toFloat(template)

	var tEnergy float64
	for _, v := range tpl {
		tEnergy += float64(v) * float64(v)
	}

	sq := newSquaredIntegral(img, iw, ih)

	surface := detection.NewSurface(iw-tw+1, ih-th+1)
	surface.Origin = gb.Min

	for y := 0; y < surface.Height; y++ {
		for x := 0; x < surface.Width; x++ {
			denom := math.Sqrt(tEnergy * sq.sum(x, y, tw, th))
			if denom == 0 {
				continue
			}
			var dot float64
			for ty := 0; ty < th; ty++ {
				row := img[(y+ty)*iw+x : (y+ty)*iw+x+tw]
				trow := tpl[ty*tw : ty*tw+tw]
				var acc float32
				for i, t := range trow {
					acc += t * row[i]
				}
				dot += float64(acc)
			}
			surface.Set(x, y, float32(dot/denom))
		}
	}
	return surface, nil
}

func checkSizes(gray, template *image.Gray) error {
	if gray == nil || gray.Bounds().Empty() {
		return detection.NewError(detection.KindInvalidBounds, "correlate",
			fmt.Errorf("the image is empty"))
	}
	if template == nil || template.Bounds().Empty() {
		return detection.NewError(detection.KindInvalidTemplate, "correlate",
			fmt.Errorf("the template is empty"))
	}
	gs, ts := gray.Bounds().Size(), template.Bounds().Size()
	if ts.X > gs.X || ts.Y > gs.Y {
		return detection.NewError(detection.KindInvalidTemplate, "correlate",
			fmt.Errorf("template %dx%d is larger than image %dx%d", ts.X, ts.Y, gs.X, gs.Y))
	}
	return nil
}

// toFloat copies gray into a dense row-major float32 buffer.
func toFloat(gray *image.Gray) []float32 {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float32, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x, v := range row {
			out[y*w+x] = float32(v)
		}
	}
	return out
}

// squaredIntegral is a summed-area table of squared intensities, used to
// read the energy of any window in constant time.
type squaredIntegral struct {
	w    int
	sums []float64
}

func newSquaredIntegral(img []float32, w, h int) *squaredIntegral {
	stride := w + 1
	sums := make([]float64, stride*(h+1))
	for y := 0; y < h; y++ {
		var rowSum float64
		for x := 0; x < w; x++ {
			v := float64(img[y*w+x])
			rowSum += v * v
			sums[(y+1)*stride+x+1] = sums[y*stride+x+1] + rowSum
		}
	}
	return &squaredIntegral{w: stride, sums: sums}
}

// sum returns Σ I² over the w x h window with top-left (x, y).
func (s *squaredIntegral) sum(x, y, w, h int) float64 {
	a := s.sums[y*s.w+x]
	b := s.sums[y*s.w+x+w]
	c := s.sums[(y+h)*s.w+x]
	d := s.sums[(y+h)*s.w+x+w]
	v := d - b - c + a
	if v < 0 {
		// Rounding in large tables.
		return 0
	}
	return v
}
