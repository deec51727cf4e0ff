//go:build gocv

package correlate

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/ui-detect/internal/detection"
)

func init() {
	backends["opencv"] = func() detection.Correlator { return OpenCV{} }
}

// OpenCV correlates with gocv.MatchTemplate in TmCcorrNormed mode. It
// produces the same surface as NCC, much faster, and needs OpenCV
// installed. Build with -tags gocv.
type OpenCV struct{}

// Correlate implements detection.Correlator.
func (OpenCV) Correlate(gray, template *image.Gray) (*detection.Surface, error) {
	if err := checkSizes(gray, template); err != nil {
		return nil, err
	}

	src, err := grayMat(gray)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tpl, err := grayMat(template)
	if err != nil {
		return nil, err
	}
	defer tpl.Close()

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, tpl, &result, gocv.TmCcorrNormed, mask)
	if result.Empty() {
		return nil, detection.NewError(detection.KindInvalidTemplate, "correlate",
			fmt.Errorf("match template returned no surface"))
	}

	surface := detection.NewSurface(result.Cols(), result.Rows())
	surface.Origin = gray.Bounds().Min
	for y := 0; y < surface.Height; y++ {
		for x := 0; x < surface.Width; x++ {
			surface.Set(x, y, result.GetFloatAt(y, x))
		}
	}
	return surface, nil
}

// grayMat copies gray into a single channel 8-bit Mat.
func grayMat(gray *image.Gray) (gocv.Mat, error) {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(data[y*w:(y+1)*w], gray.Pix[y*gray.Stride:y*gray.Stride+w])
	}
	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, data)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to create mat: %w", err)
	}
	return mat, nil
}
