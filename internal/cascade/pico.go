package cascade

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// Pico runs a pigo pixel-intensity-comparison cascade. It is pure Go and
// needs no native libraries.
type Pico struct {
	classifier *pigo.Pigo
	params     Params
}

// NewPico unpacks a binary pico cascade.
func NewPico(data []byte, params Params) (p *Pico, err error) {
	// Unpack indexes the packet directly and panics on truncated input.
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("malformed pico cascade: %v", r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack pico cascade: %w", err)
	}
	return &Pico{classifier: classifier, params: params}, nil
}

// LoadPico reads and unpacks the cascade file at path.
func LoadPico(path string, params Params) (*Pico, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade: %w", err)
	}
	return NewPico(data, params)
}

// Detect implements detection.ShapeDetector.
func (p *Pico) Detect(gray *image.Gray) ([]image.Rectangle, error) {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		copy(pixels[y*w:(y+1)*w], gray.Pix[y*gray.Stride:y*gray.Stride+w])
	}

	cp := pigo.CascadeParams{
		MinSize:     p.params.MinSize,
		MaxSize:     p.params.MaxSize,
		ShiftFactor: p.params.ShiftFactor,
		ScaleFactor: p.params.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   h,
			Cols:   w,
			Dim:    w,
		},
	}

	dets := p.classifier.RunCascade(cp, 0.0)
	dets = p.classifier.ClusterDetections(dets, p.params.IoUThreshold)

	rects := make([]image.Rectangle, 0, len(dets))
	for _, d := range dets {
		if d.Q < p.params.MinQuality {
			continue
		}
		rects = append(rects, picoRect(d).Add(b.Min))
	}
	return rects, nil
}

// picoRect converts a centre and side length into a square.
func picoRect(d pigo.Detection) image.Rectangle {
	half := d.Scale / 2
	return image.Rect(d.Col-half, d.Row-half, d.Col-half+d.Scale, d.Row-half+d.Scale)
}
