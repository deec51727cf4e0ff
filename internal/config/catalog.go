package config

import (
	"image"

	"github.com/ironsheep/ui-detect/internal/detection"
	"github.com/ironsheep/ui-detect/internal/imaging"
)

// ImageLoader decodes an image file, for example (*imaging.ImageCache).Load.
type ImageLoader func(path string) (image.Image, error)

// DetectorOpener loads a shape detector, for example cascade.Opener(params).
type DetectorOpener func(path string) (detection.ShapeDetector, error)

// LoadTemplates decodes every entry's template and converts it to gray.
// An entry that fails to load is skipped with a resource_unavailable
// advisory; the rest still load.
func LoadTemplates(entries []Entry, load ImageLoader) ([]detection.NamedTemplate, detection.Diagnostics) {
	var diags detection.Diagnostics
	out := make([]detection.NamedTemplate, 0, len(entries))

	for _, e := range entries {
		img, err := load(e.Path)
		if err == nil && img.Bounds().Empty() {
			err = detection.ErrInvalidTemplate
		}
		if err != nil {
			diags = append(diags, unavailable(e, err))
			continue
		}
		out = append(out, detection.NamedTemplate{
			Name:  e.Name,
			Image: imaging.Grayscale(img),
		})
	}
	return out, diags
}

// LoadDetectors opens every entry's detector, skipping failures the same
// way LoadTemplates does.
func LoadDetectors(entries []Entry, open DetectorOpener) ([]detection.NamedDetector, detection.Diagnostics) {
	var diags detection.Diagnostics
	out := make([]detection.NamedDetector, 0, len(entries))

	for _, e := range entries {
		d, err := open(e.Path)
		if err != nil {
			diags = append(diags, unavailable(e, err))
			continue
		}
		out = append(out, detection.NamedDetector{Name: e.Name, Detector: d})
	}
	return out, diags
}

func unavailable(e Entry, err error) detection.Advisory {
	return detection.Advisory{
		Code:    detection.CodeResourceUnavailable,
		Class:   e.Name,
		Message: err.Error(),
	}
}
