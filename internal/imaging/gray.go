package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
)

// ITU-R BT.601 luminance weights, the same ones OpenCV uses for BGR2GRAY.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Grayscale converts img to an 8-bit single channel image with the same
// bounds. An *image.Gray input is returned as is.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	rgba := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	if bounds.Empty() {
		return gray
	}

	w, h := bounds.Dx(), bounds.Dy()
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := 0; x < w; x++ {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// EqualizeHist spreads the intensity histogram of gray over the full
// 0-255 range. It returns a new image and leaves the input untouched.
//
// # Algorithm
//
//  1. Build the 256-bin histogram and its cumulative sum.
//  2. Skip to the first non-empty bin lo. If every pixel is in bin lo the
//     output is a flat image of value lo.
//  3. Map each level v to round((cum[v] - hist[lo]) * 255 / (total - hist[lo])).
//
// This matches the lookup table cascade detectors are usually trained with.
func EqualizeHist(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	if bounds.Empty() {
		return out
	}

	hist := histogram.NewRGBAHistogram(gray).R
	cum := hist.Cumulative()
	total := bounds.Dx() * bounds.Dy()

	lo := 0
	for lo < len(hist.Bins) && hist.Bins[lo] == 0 {
		lo++
	}

	var lut [256]uint8
	if hist.Bins[lo] == total {
		for i := range lut {
			lut[i] = uint8(lo)
		}
	} else {
		scale := 255.0 / float64(total-hist.Bins[lo])
		for v := lo + 1; v < 256; v++ {
			lut[v] = saturate(float64(cum.Bins[v]-hist.Bins[lo]) * scale)
		}
	}

	w, h := bounds.Dx(), bounds.Dy()
	for y := 0; y < h; y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x, v := range src {
			dst[x] = lut[v]
		}
	}
	return out
}

func saturate(v float64) uint8 {
	v += 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
