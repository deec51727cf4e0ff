package detection

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeDetector struct {
	rects []image.Rectangle
	err   error
	calls int
	seen  *image.Gray
}

func (f *fakeDetector) Detect(gray *image.Gray) ([]image.Rectangle, error) {
	f.calls++
	f.seen = gray
	return f.rects, f.err
}

type panicDetector struct{}

func (panicDetector) Detect(*image.Gray) ([]image.Rectangle, error) {
	panic("corrupt cascade")
}

// fakeCorrelator returns a surface with peaks at the given points.
type fakeCorrelator struct {
	peaks []image.Point
	err   error
}

func (f fakeCorrelator) Correlate(gray, template *image.Gray) (*Surface, error) {
	if f.err != nil {
		return nil, f.err
	}
	gb, tb := gray.Bounds(), template.Bounds()
	s := NewSurface(gb.Dx()-tb.Dx()+1, gb.Dy()-tb.Dy()+1)
	s.Origin = gb.Min
	for _, p := range f.peaks {
		s.Set(p.X, p.Y, 1)
	}
	return s, nil
}

func testScreen(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func testTemplate(w, h int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, w, h))
}

func TestMatchShapes_EmptyConfiguration(t *testing.T) {
	_, err := MatchShapes(testScreen(10, 10), nil, DefaultPipelineOptions())
	if !errors.Is(err, ErrEmptyConfiguration) {
		t.Errorf("got %v, want ErrEmptyConfiguration", err)
	}
}

func TestMatchShapes_EmptyImage(t *testing.T) {
	d := []NamedDetector{{Name: "a", Detector: &fakeDetector{}}}
	_, err := MatchShapes(image.NewRGBA(image.Rectangle{}), d, DefaultPipelineOptions())
	if !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("got %v, want ErrInvalidBounds", err)
	}
}

func TestMatchShapes_OneResultPerEntry(t *testing.T) {
	button := &fakeDetector{rects: []image.Rectangle{
		xywh(0, 0, 10, 10), xywh(1, 1, 10, 10), xywh(50, 50, 10, 10),
	}}
	icon := &fakeDetector{rects: []image.Rectangle{xywh(90, 90, 30, 30)}}

	results, err := MatchShapes(testScreen(100, 100), []NamedDetector{
		{Name: "button", Detector: button},
		{Name: "icon", Detector: icon},
	}, DefaultPipelineOptions())
	if err != nil {
		t.Fatalf("MatchShapes failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("results: got %d, want 2", len(results))
	}
	if results[0].ClassName() != "button" || results[0].Len() != 2 {
		t.Errorf("button: got %d regions %v", results[0].Len(), results[0].Regions())
	}
	if results[1].ClassName() != "icon" || !results[1].Empty() {
		t.Errorf("icon: got %v, want empty", results[1].Regions())
	}
	if results[0].SourceBounds() != image.Rect(0, 0, 100, 100) {
		t.Errorf("SourceBounds: got %v", results[0].SourceBounds())
	}
	if button.calls != 1 || button.seen == nil || button.seen.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Error("detector should run once on a gray image of the full size")
	}
}

func TestMatchShapes_FailuresDoNotAbort(t *testing.T) {
	log, hook := test.NewNullLogger()

	opts := DefaultPipelineOptions()
	opts.Logger = log

	good := &fakeDetector{rects: []image.Rectangle{xywh(5, 5, 10, 10)}}
	results, err := MatchShapes(testScreen(50, 50), []NamedDetector{
		{Name: "broken", Detector: &fakeDetector{err: errors.New("cannot parse")}},
		{Name: "panicky", Detector: panicDetector{}},
		{Name: "missing", Detector: nil},
		{Name: "good", Detector: good},
	}, opts)
	if err != nil {
		t.Fatalf("MatchShapes failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("results: got %d, want 4", len(results))
	}
	for _, r := range results[:3] {
		if !r.Empty() {
			t.Errorf("%s: failed detector produced regions", r.ClassName())
		}
	}
	if results[3].Len() != 1 {
		t.Errorf("good: got %d regions, want 1", results[3].Len())
	}

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["code"] == CodeDetectorFailed {
			warnings++
		}
	}
	if warnings != 3 {
		t.Errorf("detector_failed warnings: got %d, want 3", warnings)
	}
}

func TestMatchShapes_LimitGuard(t *testing.T) {
	rects := make([]image.Rectangle, 0, 150)
	for i := 0; i < 150; i++ {
		rects = append(rects, xywh((i%15)*6, (i/15)*6, 5, 5))
	}
	var collected Diagnostics
	opts := DefaultPipelineOptions()
	opts.Extract.Limit = 100
	opts.Collect = &collected

	results, err := MatchShapes(testScreen(100, 100), []NamedDetector{
		{Name: "noise", Detector: &fakeDetector{rects: rects}},
	}, opts)
	if err != nil {
		t.Fatalf("MatchShapes failed: %v", err)
	}
	if !results[0].Empty() {
		t.Errorf("excess batch should be discarded, got %d regions", results[0].Len())
	}
	if collected.Count(CodeTooManyCandidates) != 1 || collected[0].Class != "noise" {
		t.Errorf("collected: got %v", collected)
	}
}

func TestMatchShapes_InvalidCoefficients(t *testing.T) {
	opts := DefaultPipelineOptions()
	opts.Coefficients = Coefficients{Overlap: 2, Containment: 0.8}
	_, err := MatchShapes(testScreen(10, 10), []NamedDetector{{Name: "a", Detector: &fakeDetector{}}}, opts)
	if !errors.Is(err, ErrInvalidCoefficient) {
		t.Errorf("got %v, want ErrInvalidCoefficient", err)
	}
}

func TestMatchTemplates(t *testing.T) {
	c := fakeCorrelator{peaks: []image.Point{{10, 10}, {11, 11}, {40, 5}}}
	results, err := MatchTemplates(testScreen(80, 60), []NamedTemplate{
		{Name: "ok", Image: testTemplate(8, 8)},
	}, c, DefaultPipelineOptions())
	if err != nil {
		t.Fatalf("MatchTemplates failed: %v", err)
	}

	got := results[0].Regions()
	// Row-major scan puts (40,5) first; (11,11) duplicates (10,10).
	want := []image.Rectangle{xywh(40, 5, 8, 8), xywh(10, 10, 8, 8)}
	if len(got) != len(want) {
		t.Fatalf("regions: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("region %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMatchTemplates_Errors(t *testing.T) {
	screen := testScreen(20, 20)
	tpl := []NamedTemplate{{Name: "a", Image: testTemplate(4, 4)}}

	if _, err := MatchTemplates(screen, nil, fakeCorrelator{}, DefaultPipelineOptions()); !errors.Is(err, ErrEmptyConfiguration) {
		t.Errorf("empty list: got %v", err)
	}
	if _, err := MatchTemplates(screen, tpl, nil, DefaultPipelineOptions()); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("nil correlator: got %v", err)
	}
}

func TestMatchTemplates_PerEntryFailures(t *testing.T) {
	results, err := MatchTemplates(testScreen(30, 30), []NamedTemplate{
		{Name: "empty", Image: testTemplate(0, 0)},
		{Name: "nil", Image: nil},
		{Name: "fine", Image: testTemplate(5, 5)},
	}, fakeCorrelator{peaks: []image.Point{{3, 3}}}, DefaultPipelineOptions())
	if err != nil {
		t.Fatalf("MatchTemplates failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results: got %d, want 3", len(results))
	}
	if !results[0].Empty() || !results[1].Empty() {
		t.Error("invalid templates should yield empty results")
	}
	if results[2].Len() != 1 {
		t.Errorf("fine: got %d regions, want 1", results[2].Len())
	}

	failing := fakeCorrelator{err: errors.New("template larger than image")}
	results, err = MatchTemplates(testScreen(30, 30), []NamedTemplate{{Name: "x", Image: testTemplate(5, 5)}}, failing, DefaultPipelineOptions())
	if err != nil || !results[0].Empty() {
		t.Errorf("correlator failure: got %v, %v", results, err)
	}
}
