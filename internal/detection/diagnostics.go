package detection

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
)

// Code identifies an advisory condition. Advisories never abort processing.
type Code string

const (
	CodeEmptyRegion         Code = "empty_region"
	CodeNoCandidates        Code = "no_candidates"
	CodeTooManyCandidates   Code = "too_many_candidates"
	CodeOutOfImage          Code = "out_of_image"
	CodeOverlap             Code = "overlap"
	CodeNothingToSet        Code = "nothing_to_set"
	CodeNothingToCompose    Code = "nothing_to_compose"
	CodeDetectorFailed      Code = "detector_failed"
	CodeMalformedEntry      Code = "malformed_entry"
	CodeResourceUnavailable Code = "resource_unavailable"
)

// Advisory is a single diagnostic produced while building or composing results.
type Advisory struct {
	Code    Code            `json:"code"`
	Class   string          `json:"class,omitempty"`
	Region  image.Rectangle `json:"region"`
	Message string          `json:"message"`
}

// String formats the advisory for human consumption.
func (a Advisory) String() string {
	prefix := string(a.Code)
	if a.Class != "" {
		prefix = a.Class + ": " + prefix
	}
	if a.Region.Empty() && a.Code != CodeEmptyRegion {
		return fmt.Sprintf("%s: %s", prefix, a.Message)
	}
	return fmt.Sprintf("%s: %s %v", prefix, a.Message, a.Region)
}

// Diagnostics is an ordered list of advisories.
type Diagnostics []Advisory

// Count returns the number of advisories carrying code.
func (d Diagnostics) Count(code Code) int {
	n := 0
	for _, a := range d {
		if a.Code == code {
			n++
		}
	}
	return n
}

// WithClass returns a copy where every advisory without a class gets class.
func (d Diagnostics) WithClass(class string) Diagnostics {
	if len(d) == 0 {
		return d
	}
	out := make(Diagnostics, len(d))
	for i, a := range d {
		if a.Class == "" {
			a.Class = class
		}
		out[i] = a
	}
	return out
}

// Log writes every advisory to logger. Rejections are debug-level noise;
// conditions that leave a class without detections are warnings.
func (d Diagnostics) Log(logger logrus.FieldLogger) {
	if logger == nil {
		return
	}
	for _, a := range d {
		entry := logger.WithFields(logrus.Fields{
			"code": a.Code,
		})
		if a.Class != "" {
			entry = entry.WithField("class", a.Class)
		}
		if !a.Region.Empty() {
			entry = entry.WithField("region", a.Region.String())
		}
		switch a.Code {
		case CodeOutOfImage, CodeOverlap, CodeEmptyRegion:
			entry.Debug(a.Message)
		case CodeDetectorFailed, CodeResourceUnavailable, CodeMalformedEntry, CodeTooManyCandidates:
			entry.Warn(a.Message)
		default:
			entry.Info(a.Message)
		}
	}
}

func advise(code Code, region image.Rectangle, format string, args ...interface{}) Advisory {
	return Advisory{
		Code:    code,
		Region:  region,
		Message: fmt.Sprintf(format, args...),
	}
}
