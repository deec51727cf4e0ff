package cascade

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Params tunes the multi-scale scan shared by every cascade backend.
type Params struct {
	// MinSize and MaxSize bound the detection window side in pixels.
	MinSize int `json:"min_size" validate:"gt=0"`
	MaxSize int `json:"max_size" validate:"gtefield=MinSize"`

	// ShiftFactor is the window step as a fraction of its size (pico only).
	ShiftFactor float64 `json:"shift_factor" validate:"gt=0,lt=1"`

	// ScaleFactor is the growth between scan scales.
	ScaleFactor float64 `json:"scale_factor" validate:"gt=1"`

	// IoUThreshold merges pico detections whose intersection over union
	// exceeds it.
	IoUThreshold float64 `json:"iou_threshold" validate:"gte=0,lte=1"`

	// MinQuality drops pico detections scoring below it.
	MinQuality float32 `json:"min_quality"`

	// MinNeighbors is the number of overlapping hits a Haar detection
	// needs to survive.
	MinNeighbors int `json:"min_neighbors" validate:"gte=0"`
}

// DefaultParams returns settings that suit typical desktop screenshots.
func DefaultParams() Params {
	return Params{
		MinSize:      20,
		MaxSize:      1000,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		IoUThreshold: 0.2,
		MinQuality:   5.0,
		MinNeighbors: 3,
	}
}

// Validate checks every field against its range.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid cascade parameters: %w", err)
	}
	return nil
}
