package cascade

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/ui-detect/internal/contour"
	"github.com/ironsheep/ui-detect/internal/detection"
)

// BuiltinPrefix marks a configuration path that names a built-in detector
// instead of a file, for example "builtin:boxes".
const BuiltinPrefix = "builtin:"

// haarOpener loads OpenCV XML cascades. It is set by the gocv build.
var haarOpener func(path string, params Params) (detection.ShapeDetector, error)

// Open loads the detector named by path.
//
//   - builtin:boxes and builtin:text select the contour heuristics
//   - *.xml is an OpenCV Haar or LBP cascade (requires -tags gocv)
//   - anything else is read as a binary pico cascade
//
// Failures are reported with kind detection.KindResourceLoad so callers
// can skip the entry and keep going.
func Open(path string, params Params) (detection.ShapeDetector, error) {
	if err := params.Validate(); err != nil {
		return nil, detection.NewError(detection.KindResourceLoad, "open detector", err)
	}
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		switch name {
		case "boxes":
			return contour.DefaultBoxes(), nil
		case "text":
			return contour.DefaultTextBlocks(), nil
		}
		return nil, detection.NewError(detection.KindResourceLoad, "open detector",
			fmt.Errorf("unknown built-in detector %q", name))
	}

	if strings.EqualFold(filepath.Ext(path), ".xml") {
		if haarOpener == nil {
			return nil, detection.NewError(detection.KindResourceLoad, "open cascade",
				fmt.Errorf("%s: xml cascades need a build with -tags gocv", path))
		}
		d, err := haarOpener(path, params)
		if err != nil {
			return nil, detection.NewError(detection.KindResourceLoad, "open cascade", err)
		}
		return d, nil
	}

	p, err := LoadPico(path, params)
	if err != nil {
		return nil, detection.NewError(detection.KindResourceLoad, "open cascade",
			fmt.Errorf("%s: %w", path, err))
	}
	return p, nil
}

// Opener adapts Open to a fixed parameter set.
func Opener(params Params) func(path string) (detection.ShapeDetector, error) {
	return func(path string) (detection.ShapeDetector, error) {
		return Open(path, params)
	}
}
