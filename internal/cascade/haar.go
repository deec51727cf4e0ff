//go:build gocv

package cascade

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/ui-detect/internal/detection"
)

func init() {
	haarOpener = func(path string, params Params) (detection.ShapeDetector, error) {
		return LoadHaar(path, params)
	}
}

// Haar wraps an OpenCV CascadeClassifier. Call Close when done.
type Haar struct {
	classifier gocv.CascadeClassifier
	params     Params
}

// LoadHaar loads an OpenCV XML cascade.
func LoadHaar(path string, params Params) (*Haar, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load cascade %s", path)
	}
	return &Haar{classifier: classifier, params: params}, nil
}

// Detect implements detection.ShapeDetector. The input is expected to be
// equalized already.
func (h *Haar) Detect(gray *image.Gray) ([]image.Rectangle, error) {
	b := gray.Bounds()
	w, hh := b.Dx(), b.Dy()
	data := make([]byte, w*hh)
	for y := 0; y < hh; y++ {
		copy(data[y*w:(y+1)*w], gray.Pix[y*gray.Stride:y*gray.Stride+w])
	}
	mat, err := gocv.NewMatFromBytes(hh, w, gocv.MatTypeCV8UC1, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create mat: %w", err)
	}
	defer mat.Close()

	rects := h.classifier.DetectMultiScaleWithParams(mat,
		h.params.ScaleFactor,
		h.params.MinNeighbors,
		0,
		image.Pt(h.params.MinSize, h.params.MinSize),
		image.Pt(h.params.MaxSize, h.params.MaxSize),
	)
	for i := range rects {
		rects[i] = rects[i].Add(b.Min)
	}
	return rects, nil
}

// Close releases the native classifier.
func (h *Haar) Close() error {
	return h.classifier.Close()
}
