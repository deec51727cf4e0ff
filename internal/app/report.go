package app

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/ironsheep/ui-detect/internal/detection"
	"github.com/ironsheep/ui-detect/internal/ocr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ClassReport lists the regions accepted for one class.
type ClassReport struct {
	Class   string            `json:"class"`
	Regions []image.Rectangle `json:"regions"`
}

// StrategyReport summarizes one strategy of a run.
type StrategyReport struct {
	Strategy string `json:"strategy"`

	// Entries is the number of catalogue lines, Loaded how many of them
	// produced a usable template or detector.
	Entries int `json:"entries"`
	Loaded  int `json:"loaded"`

	Classes []ClassReport `json:"classes"`
}

// Report is the outcome of Runner.Run.
type Report struct {
	RunID       uuid.UUID             `json:"run_id"`
	Image       string                `json:"image"`
	Width       int                   `json:"width"`
	Height      int                   `json:"height"`
	Strategies  []StrategyReport      `json:"strategies"`
	Overlay     detection.Overlay     `json:"overlay"`
	OverlayPath string                `json:"overlay_path,omitempty"`
	Captions    []ocr.Caption         `json:"captions,omitempty"`
	Diagnostics detection.Diagnostics `json:"diagnostics"`
}

func classReports(results []*detection.Result) []ClassReport {
	out := make([]ClassReport, 0, len(results))
	for _, res := range results {
		out = append(out, ClassReport{Class: res.ClassName(), Regions: res.Regions()})
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteText writes the human-readable region listing:
//
//	Found regions:
//	button: (10,10)-(50,30) (60,10)-(100,30)
//
// Classes appear in overlay order. Coordinates are Min and Max corners.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Found regions:\n")

	byClass := r.Overlay.ByClass()
	for _, class := range r.Overlay.Classes() {
		b.WriteString(class)
		b.WriteString(":")
		for _, rect := range byClass[class] {
			fmt.Fprintf(&b, " (%d,%d)-(%d,%d)", rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y)
		}
		b.WriteString("\n")
	}

	for _, c := range r.Captions {
		if c.Text == "" {
			continue
		}
		fmt.Fprintf(&b, "%s %v: %q\n", c.Class, c.Region, c.Text)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
