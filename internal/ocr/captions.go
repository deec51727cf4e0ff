package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/ui-detect/internal/detection"
	"github.com/ironsheep/ui-detect/internal/imaging"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Caption is the text read inside one detected region.
type Caption struct {
	Class  string          `json:"class"`
	Region image.Rectangle `json:"region"`

	// Text is trimmed; empty when nothing legible was found or OCR failed.
	Text string `json:"text"`

	// Confidence is the mean word confidence, 0.0 to 1.0.
	Confidence float64 `json:"confidence"`

	// Error holds the reason a region could not be read.
	Error string `json:"error,omitempty"`
}

// Reader runs Tesseract over detected regions.
//
// UI captions are short and rendered small, so each region is cropped,
// upscaled by Scale and read as a single block of text.
type Reader struct {
	Language string

	// Scale is the upscale applied before OCR. Values below 1 mean 2.
	Scale float64

	// TessdataPrefix overrides the directory holding *.traineddata.
	TessdataPrefix string
}

// NewReader returns a Reader for language with 2x upscaling.
func NewReader(language string) *Reader {
	if language == "" {
		language = DefaultLanguage
	}
	return &Reader{Language: language, Scale: 2}
}

// ReadCaptions reads the text inside every overlay item, in item order.
//
// A region that cannot be cropped or read yields a Caption with empty
// Text and the reason in Error. When every region fails, which is what a
// missing language or broken Tesseract install looks like, the first
// failure is returned as an error instead.
func (r *Reader) ReadCaptions(img image.Image, items []detection.OverlayItem) ([]Caption, error) {
	captions := make([]Caption, 0, len(items))
	if len(items) == 0 {
		return captions, nil
	}

	client := gosseract.NewClient()
	defer client.Close()

	if r.TessdataPrefix != "" {
		client.TessdataPrefix = r.TessdataPrefix
	}
	if err := client.SetLanguage(r.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	scale := r.Scale
	if scale < 1 {
		scale = 2
	}

	var first error
	failed := 0
	for _, it := range items {
		c := Caption{Class: it.Class, Region: it.Region}
		text, conf, err := readRegion(client, img, it.Region, scale)
		if err != nil {
			c.Error = err.Error()
			failed++
			if first == nil {
				first = err
			}
		} else {
			c.Text, c.Confidence = text, conf
		}
		captions = append(captions, c)
	}
	if failed == len(items) {
		return nil, fmt.Errorf("no region could be read: %w", first)
	}
	return captions, nil
}

func readRegion(client *gosseract.Client, img image.Image, region image.Rectangle, scale float64) (string, float64, error) {
	data, err := regionPNG(img, region, scale)
	if err != nil {
		return "", 0, err
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("OCR failed: %w", err)
	}

	// Confidence is best effort; the text stands without it.
	var conf float64
	if boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD); err == nil {
		conf = meanConfidence(boxes)
	}
	return normalizeText(text), conf, nil
}

// regionPNG crops, upscales and converts region to a gray PNG.
func regionPNG(img image.Image, region image.Rectangle, scale float64) ([]byte, error) {
	cropped, err := imaging.CropRegion(img, region, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.Grayscale(cropped)); err != nil {
		return nil, fmt.Errorf("failed to encode region: %w", err)
	}
	return buf.Bytes(), nil
}

func meanConfidence(boxes []gosseract.BoundingBox) float64 {
	var sum float64
	n := 0
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		sum += b.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 100.0
}

// normalizeText collapses whitespace runs, including newlines, to one space.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Version reports the linked Tesseract version.
func Version() string {
	return gosseract.Version()
}
