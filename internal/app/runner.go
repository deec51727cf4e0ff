package app

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ui-detect/internal/cascade"
	"github.com/ironsheep/ui-detect/internal/config"
	"github.com/ironsheep/ui-detect/internal/correlate"
	"github.com/ironsheep/ui-detect/internal/detection"
	"github.com/ironsheep/ui-detect/internal/imaging"
	"github.com/ironsheep/ui-detect/internal/logger"
	"github.com/ironsheep/ui-detect/internal/ocr"
)

// Strategy names used in reports and log fields.
const (
	StrategyTemplates = "templates"
	StrategyCascades  = "cascades"
)

// ErrNoStrategy is returned when a request enables neither strategy.
var ErrNoStrategy = errors.New("no detection strategy requested, enable templates or cascades")

// Request describes one detection run.
type Request struct {
	ImagePath string

	// Templates and Cascades enable the two strategies. At least one must be set.
	Templates bool
	Cascades  bool

	// Captions reads the text inside every detected region.
	Captions bool

	// OutputPath, when set, receives the screenshot with detections drawn on it.
	OutputPath string
}

// CaptionReader reads text inside overlay regions. *ocr.Reader implements it.
type CaptionReader interface {
	ReadCaptions(img image.Image, items []detection.OverlayItem) ([]ocr.Caption, error)
}

// Runner executes detection requests. The zero value is not usable; build
// one with NewRunner and replace collaborators as needed.
type Runner struct {
	Settings     config.Settings
	Logger       logrus.FieldLogger
	Cache        *imaging.ImageCache
	Correlator   detection.Correlator
	OpenDetector config.DetectorOpener
	Captions     CaptionReader
	Style        imaging.OverlayStyle
}

// NewRunner returns a Runner with the default backends: the best available
// correlator, pico/builtin/Haar cascades and English captions.
func NewRunner(settings config.Settings, log logrus.FieldLogger) *Runner {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Runner{
		Settings:     settings,
		Logger:       log,
		Cache:        imaging.NewImageCache(),
		Correlator:   correlate.Default(),
		OpenDetector: cascade.Opener(cascade.DefaultParams()),
		Captions:     ocr.NewReader(ocr.DefaultLanguage),
		Style:        imaging.DefaultOverlayStyle(),
	}
}

// Run loads the screenshot, runs every enabled strategy and composes the
// results.
//
// Fatal conditions return an error: no strategy, an unreadable image, an
// unreadable catalogue, an empty catalogue and a failure to save the
// overlay. Everything else ends up in Report.Diagnostics.
func (r *Runner) Run(req Request) (*Report, error) {
	if !req.Templates && !req.Cascades {
		return nil, ErrNoStrategy
	}

	runID := uuid.New()
	log := r.Logger.WithField("run_id", runID.String())

	img, err := r.Cache.Load(req.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load screenshot: %w", err)
	}
	bounds := img.Bounds()
	log.WithFields(logrus.Fields{
		"image":  req.ImagePath,
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
	}).Info("screenshot loaded")

	report := &Report{
		RunID:      runID,
		Image:      req.ImagePath,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Strategies: make([]StrategyReport, 0, 2),
	}

	var sets [][]*detection.Result
	if req.Templates {
		results, sr, err := r.runTemplates(img, log.WithField("strategy", StrategyTemplates), &report.Diagnostics)
		if err != nil {
			return nil, err
		}
		sets = append(sets, results)
		report.Strategies = append(report.Strategies, sr)
	}
	if req.Cascades {
		results, sr, err := r.runCascades(img, log.WithField("strategy", StrategyCascades), &report.Diagnostics)
		if err != nil {
			return nil, err
		}
		sets = append(sets, results)
		report.Strategies = append(report.Strategies, sr)
	}

	overlay, diags := detection.Compose(sets...)
	diags.Log(log)
	report.Overlay = overlay
	report.Diagnostics = append(report.Diagnostics, diags...)

	if req.Captions && overlay.Len() > 0 {
		r.readCaptions(img, report, log)
	}

	if req.OutputPath != "" {
		rendered := imaging.DrawOverlay(img, labels(overlay), r.Style)
		if err := imaging.SaveImage(req.OutputPath, rendered); err != nil {
			return nil, err
		}
		report.OverlayPath = req.OutputPath
		log.WithField("path", req.OutputPath).Info("overlay saved")
	}

	log.WithFields(logrus.Fields{
		"regions":     overlay.Len(),
		"diagnostics": len(report.Diagnostics),
	}).Info("detection finished")
	return report, nil
}

func (r *Runner) pipelineOptions(log logrus.FieldLogger, collect *detection.Diagnostics) detection.PipelineOptions {
	opts := detection.DefaultPipelineOptions()
	opts.Extract = r.Settings.ExtractOptions()
	opts.Coefficients = r.Settings.Coefficients()
	opts.Logger = log
	opts.Collect = collect
	return opts
}

func (r *Runner) runTemplates(img image.Image, log logrus.FieldLogger, diags *detection.Diagnostics) ([]*detection.Result, StrategyReport, error) {
	sr := StrategyReport{Strategy: StrategyTemplates}

	entries, parsed, err := config.ReadEntries(r.Settings.DataDir, r.Settings.Templates)
	if err != nil {
		return nil, sr, err
	}
	templates, loaded := config.LoadTemplates(entries, r.Cache.Load)
	r.note(diags, log, parsed, loaded)
	sr.Entries, sr.Loaded = len(entries), len(templates)

	results, err := detection.MatchTemplates(img, templates, r.Correlator, r.pipelineOptions(log, diags))
	if err != nil {
		return nil, sr, err
	}
	sr.Classes = classReports(results)
	return results, sr, nil
}

func (r *Runner) runCascades(img image.Image, log logrus.FieldLogger, diags *detection.Diagnostics) ([]*detection.Result, StrategyReport, error) {
	sr := StrategyReport{Strategy: StrategyCascades}

	entries, parsed, err := config.ReadEntries(r.Settings.DataDir, r.Settings.Cascades)
	if err != nil {
		return nil, sr, err
	}
	detectors, loaded := config.LoadDetectors(entries, r.OpenDetector)
	defer closeDetectors(detectors, log)
	r.note(diags, log, parsed, loaded)
	sr.Entries, sr.Loaded = len(entries), len(detectors)

	results, err := detection.MatchShapes(img, detectors, r.pipelineOptions(log, diags))
	if err != nil {
		return nil, sr, err
	}
	sr.Classes = classReports(results)
	return results, sr, nil
}

// note logs configuration advisories and adds them to the report.
func (r *Runner) note(diags *detection.Diagnostics, log logrus.FieldLogger, lists ...detection.Diagnostics) {
	for _, d := range lists {
		d.Log(log)
		*diags = append(*diags, d...)
	}
}

func (r *Runner) readCaptions(img image.Image, report *Report, log logrus.FieldLogger) {
	if r.Captions == nil {
		return
	}
	captions, err := r.Captions.ReadCaptions(img, report.Overlay.Items)
	if err != nil {
		a := detection.Advisory{
			Code:    detection.CodeResourceUnavailable,
			Class:   "captions",
			Message: err.Error(),
		}
		detection.Diagnostics{a}.Log(log)
		report.Diagnostics = append(report.Diagnostics, a)
		return
	}
	report.Captions = captions
}

func closeDetectors(detectors []detection.NamedDetector, log logrus.FieldLogger) {
	for _, nd := range detectors {
		c, ok := nd.Detector.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			log.WithField("class", nd.Name).WithError(err).Warn("failed to release detector")
		}
	}
}

func labels(o detection.Overlay) []imaging.Label {
	out := make([]imaging.Label, len(o.Items))
	for i, it := range o.Items {
		out[i] = imaging.Label{Text: it.Class, Rect: it.Region}
	}
	return out
}
