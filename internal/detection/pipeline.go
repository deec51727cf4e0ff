package detection

import (
	"fmt"
	"image"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ui-detect/internal/imaging"
)

// ShapeDetector is a pretrained detector, such as a Haar, LBP or pico
// cascade. It may return zero, a few, or (when it malfunctions) a great
// many rectangles; the limit guard is applied by the pipeline.
type ShapeDetector interface {
	Detect(gray *image.Gray) ([]image.Rectangle, error)
}

// Correlator scores every placement of template over gray.
type Correlator interface {
	Correlate(gray, template *image.Gray) (*Surface, error)
}

// NamedDetector pairs an element class with the detector that finds it.
type NamedDetector struct {
	Name     string
	Detector ShapeDetector
}

// NamedTemplate pairs an element class with its grayscale template patch.
type NamedTemplate struct {
	Name  string
	Image *image.Gray
}

// PipelineOptions configures MatchShapes and MatchTemplates.
type PipelineOptions struct {
	Extract      ExtractOptions
	Coefficients Coefficients

	// Equalize applies histogram equalization before shape detection.
	Equalize bool

	// Logger receives every advisory produced by the run. Nil discards them.
	Logger logrus.FieldLogger

	// Collect, when set, also receives every advisory with its class filled in.
	Collect *Diagnostics
}

// DefaultPipelineOptions returns default extraction and acceptance settings
// with equalization enabled and logging discarded.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Extract:      DefaultExtractOptions(),
		Coefficients: DefaultCoefficients(),
		Equalize:     true,
	}
}

func (o PipelineOptions) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (o PipelineOptions) report(class string, diags Diagnostics, log logrus.FieldLogger) {
	diags = diags.WithClass(class)
	diags.Log(log)
	if o.Collect != nil {
		*o.Collect = append(*o.Collect, diags...)
	}
}

func (o PipelineOptions) coefficients() Coefficients {
	if o.Coefficients == (Coefficients{}) {
		return DefaultCoefficients()
	}
	return o.Coefficients
}

// MatchShapes runs every named detector over img and returns one Result
// per entry, in entry order.
//
// A detector that fails contributes an empty Result and a detector_failed
// advisory; the remaining entries still run. The only errors are an empty
// detector list, invalid coefficients, and an image with no pixels.
func MatchShapes(img image.Image, detectors []NamedDetector, opts PipelineOptions) ([]*Result, error) {
	if len(detectors) == 0 {
		return nil, newError(KindEmptyConfiguration, "match shapes", "there are no detectors in the input list")
	}
	bounds, err := sourceBounds(img)
	if err != nil {
		return nil, err
	}
	coeffs := opts.coefficients()
	if err := coeffs.Validate(); err != nil {
		return nil, err
	}
	log := opts.logger()

	gray := imaging.Grayscale(img)
	if opts.Equalize {
		gray = imaging.EqualizeHist(gray)
	}

	results := make([]*Result, 0, len(detectors))
	for _, nd := range detectors {
		res, err := NewResult(nd.Name, bounds, WithCoefficients(coeffs))
		if err != nil {
			return nil, err
		}

		var diags Diagnostics
		raw, derr := detectSafely(nd.Detector, gray)
		if derr != nil {
			diags = append(diags, Advisory{
				Code:    CodeDetectorFailed,
				Message: derr.Error(),
			})
		}

		candidates, guard := GuardLimit(raw, opts.Extract.Limit)
		diags = append(diags, guard...)
		if len(candidates) > 0 {
			added, err := res.AddAll(candidates)
			if err != nil {
				return nil, err
			}
			diags = append(diags, added...)
		}

		opts.report(nd.Name, diags, log)
		log.WithFields(logrus.Fields{
			"class":      nd.Name,
			"candidates": len(raw),
			"accepted":   res.Len(),
		}).Debug("shape detection finished")

		results = append(results, res)
	}
	return results, nil
}

// MatchTemplates correlates every named template with img and returns one
// Result per entry, in entry order. Failures are handled as in MatchShapes.
func MatchTemplates(img image.Image, templates []NamedTemplate, c Correlator, opts PipelineOptions) ([]*Result, error) {
	if len(templates) == 0 {
		return nil, newError(KindEmptyConfiguration, "match templates", "there are no templates in the input list")
	}
	if c == nil {
		return nil, newError(KindInvalidTemplate, "match templates", "no correlator configured")
	}
	bounds, err := sourceBounds(img)
	if err != nil {
		return nil, err
	}
	coeffs := opts.coefficients()
	if err := coeffs.Validate(); err != nil {
		return nil, err
	}
	log := opts.logger()

	gray := imaging.Grayscale(img)

	results := make([]*Result, 0, len(templates))
	for _, nt := range templates {
		res, err := NewResult(nt.Name, bounds, WithCoefficients(coeffs))
		if err != nil {
			return nil, err
		}

		var (
			diags      Diagnostics
			candidates []image.Rectangle
		)
		surface, cerr := correlateSafely(c, gray, nt.Image)
		if cerr != nil {
			diags = append(diags, Advisory{
				Code:    CodeDetectorFailed,
				Message: cerr.Error(),
			})
		} else {
			size := nt.Image.Bounds().Size()
			var extract Diagnostics
			candidates, extract = ExtractCandidates(surface, size, opts.Extract)
			diags = append(diags, extract...)
		}

		if len(candidates) > 0 {
			added, err := res.AddAll(candidates)
			if err != nil {
				return nil, err
			}
			diags = append(diags, added...)
		}

		opts.report(nt.Name, diags, log)
		log.WithFields(logrus.Fields{
			"class":      nt.Name,
			"candidates": len(candidates),
			"accepted":   res.Len(),
		}).Debug("template matching finished")

		results = append(results, res)
	}
	return results, nil
}

func sourceBounds(img image.Image) (image.Rectangle, error) {
	if img == nil {
		return image.Rectangle{}, newError(KindInvalidBounds, "source image", "the image is nil")
	}
	b := img.Bounds()
	if b.Empty() {
		return image.Rectangle{}, newError(KindInvalidBounds, "source image", "the image size must not be empty")
	}
	return b, nil
}

// detectSafely isolates one entry's detector so that a panicking backend
// degrades to a per-entry failure.
func detectSafely(d ShapeDetector, gray *image.Gray) (rects []image.Rectangle, err error) {
	if d == nil {
		return nil, newError(KindResourceLoad, "detect", "the detector is empty, load it and try again")
	}
	defer func() {
		if p := recover(); p != nil {
			rects, err = nil, fmt.Errorf("detector panicked: %v", p)
		}
	}()
	return d.Detect(gray)
}

func correlateSafely(c Correlator, gray, template *image.Gray) (s *Surface, err error) {
	if template == nil || template.Bounds().Empty() {
		return nil, newError(KindInvalidTemplate, "correlate", "template is empty")
	}
	defer func() {
		if p := recover(); p != nil {
			s, err = nil, fmt.Errorf("correlator panicked: %v", p)
		}
	}()
	return c.Correlate(gray, template)
}
