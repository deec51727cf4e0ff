package detection

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestError_IsByKind(t *testing.T) {
	err := fmt.Errorf("load: %w", NewError(KindResourceLoad, "open cascade", errors.New("boom")))

	if !errors.Is(err, ErrResourceLoad) {
		t.Error("wrapped error should match its kind sentinel")
	}
	if errors.Is(err, ErrInvalidBounds) {
		t.Error("wrapped error must not match other kinds")
	}
	if !strings.Contains(err.Error(), "open cascade: boom") {
		t.Errorf("message: got %q", err.Error())
	}
}

func TestError_Message(t *testing.T) {
	e := newError(KindEmptyResult, "region", "the result has no regions")
	if e.Error() != "region: the result has no regions" {
		t.Errorf("got %q", e.Error())
	}
	if (&Error{Kind: KindInvalidTemplate}).Error() != "invalid_template" {
		t.Error("bare error should print its kind")
	}
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{newError(KindIndexOutOfRange, "", ""), true},
		{newError(KindEmptyResult, "", ""), true},
		{newError(KindResourceLoad, "", ""), true},
		{newError(KindEmptyConfiguration, "", ""), false},
		{newError(KindConfigUnreadable, "", ""), false},
		{newError(KindInvalidBounds, "", ""), false},
		{errors.New("plain"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsRecoverable(tt.err); got != tt.want {
			t.Errorf("IsRecoverable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestAdvisory_String(t *testing.T) {
	a := Advisory{Code: CodeOverlap, Class: "button", Region: xywh(1, 2, 3, 4), Message: "dup"}
	if got := a.String(); got != "button: overlap: dup (1,2)-(4,6)" {
		t.Errorf("got %q", got)
	}
	b := Advisory{Code: CodeNoCandidates, Message: "none"}
	if got := b.String(); got != "no_candidates: none" {
		t.Errorf("got %q", got)
	}
}

func TestDiagnostics_WithClassKeepsExisting(t *testing.T) {
	d := Diagnostics{
		{Code: CodeOverlap},
		{Code: CodeOverlap, Class: "other"},
	}
	out := d.WithClass("button")
	if out[0].Class != "button" || out[1].Class != "other" {
		t.Errorf("got %v", out)
	}
	if d[0].Class != "" {
		t.Error("WithClass must not modify the receiver")
	}
}

func TestDiagnostics_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	Diagnostics{
		{Code: CodeOverlap, Region: image.Rect(0, 0, 1, 1), Message: "hidden at info"},
		{Code: CodeTooManyCandidates, Class: "icon", Message: "discarded"},
		{Code: CodeNoCandidates, Message: "nothing found"},
	}.Log(log)

	out := buf.String()
	if strings.Contains(out, "hidden at info") {
		t.Error("rejections should log at debug level")
	}
	if !strings.Contains(out, "level=warning") || !strings.Contains(out, "class=icon") {
		t.Errorf("expected a warning with class field, got:\n%s", out)
	}
	if !strings.Contains(out, "nothing found") {
		t.Errorf("expected info advisory, got:\n%s", out)
	}

	Diagnostics{{Code: CodeOverlap}}.Log(nil)
}
