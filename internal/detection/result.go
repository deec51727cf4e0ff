package detection

import (
	"fmt"
	"image"
)

// Default acceptance coefficients.
const (
	DefaultOverlap     = 0.2
	DefaultContainment = 0.8
)

// Coefficients tune the acceptance policy of a Result.
type Coefficients struct {
	// Overlap is the largest tolerated fraction of the smaller region that
	// may be shared with an already accepted region. Range (0, 1).
	Overlap float64 `json:"overlap"`

	// Containment is the smallest fraction of a candidate's area that must
	// lie inside the source image. Range (0, 1].
	Containment float64 `json:"containment"`
}

// DefaultCoefficients returns Overlap 0.2 and Containment 0.8.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		Overlap:     DefaultOverlap,
		Containment: DefaultContainment,
	}
}

// Validate checks both coefficients against their ranges.
func (c Coefficients) Validate() error {
	if err := validateOverlap(c.Overlap); err != nil {
		return err
	}
	return validateContainment(c.Containment)
}

func validateOverlap(k float64) error {
	if k <= 0 || k >= 1 {
		return newError(KindInvalidCoefficient, "overlap coefficient",
			fmt.Sprintf("%v must be in range (0, 1)", k))
	}
	return nil
}

func validateContainment(k float64) error {
	if k <= 0 || k > 1 {
		return newError(KindInvalidCoefficient, "containment coefficient",
			fmt.Sprintf("%v must be in range (0, 1]", k))
	}
	return nil
}

// Verdict is the outcome of offering a single candidate to a Result.
type Verdict int

const (
	// VerdictAccepted means the candidate was appended to the result.
	VerdictAccepted Verdict = iota

	// VerdictEmpty means the candidate had no area and was ignored.
	VerdictEmpty

	// VerdictOutOfImage means the candidate was too large or mostly outside
	// the source bounds.
	VerdictOutOfImage

	// VerdictOverlap means the candidate duplicated an accepted region.
	VerdictOverlap
)

func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "accepted"
	case VerdictEmpty:
		return "empty"
	case VerdictOutOfImage:
		return "out_of_image"
	case VerdictOverlap:
		return "overlap"
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// Area returns the pixel area of r, or 0 when r is empty.
func Area(r image.Rectangle) int {
	if r.Empty() {
		return 0
	}
	return r.Dx() * r.Dy()
}

// Result holds the accepted regions of one element class.
//
// A Result is built by exactly one pipeline through Add and AddAll, which
// enforce two invariants by construction:
//
//   - every accepted region lies mostly inside the source bounds, and
//   - no two accepted regions overlap by more than the overlap coefficient.
//
// Regions keep acceptance order. There is no scoring: when two candidates
// collide, the one offered first is kept.
type Result struct {
	class   string
	bounds  image.Rectangle
	coeffs  Coefficients
	regions []image.Rectangle
}

// ResultOption customizes a Result at construction.
type ResultOption func(*Result) error

// WithCoefficients replaces the default coefficients after validating them.
func WithCoefficients(c Coefficients) ResultOption {
	return func(r *Result) error {
		if err := c.Validate(); err != nil {
			return err
		}
		r.coeffs = c
		return nil
	}
}

// NewResult creates an empty result for class over the given source bounds.
func NewResult(class string, bounds image.Rectangle, opts ...ResultOption) (*Result, error) {
	r := &Result{
		class:  class,
		coeffs: DefaultCoefficients(),
	}
	if err := r.SetSourceBounds(bounds); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ClassName returns the element class label.
func (r *Result) ClassName() string {
	return r.class
}

// SetClassName relabels the result. No validation is applied.
func (r *Result) SetClassName(name string) {
	r.class = name
}

// SourceBounds returns the rectangle of the full source image.
func (r *Result) SourceBounds() image.Rectangle {
	return r.bounds
}

// SetSourceBounds sets the source image rectangle. Empty bounds are rejected.
func (r *Result) SetSourceBounds(bounds image.Rectangle) error {
	if bounds.Empty() {
		return newError(KindInvalidBounds, "set source bounds", "the image size must not be empty")
	}
	r.bounds = bounds
	return nil
}

// Coefficients returns the active acceptance coefficients.
func (r *Result) Coefficients() Coefficients {
	return r.coeffs
}

// SetOverlapCoefficient sets the overlap coefficient, which must be in (0, 1).
func (r *Result) SetOverlapCoefficient(k float64) error {
	if err := validateOverlap(k); err != nil {
		return err
	}
	r.coeffs.Overlap = k
	return nil
}

// SetContainmentCoefficient sets the containment coefficient, which must be in (0, 1].
func (r *Result) SetContainmentCoefficient(k float64) error {
	if err := validateContainment(k); err != nil {
		return err
	}
	r.coeffs.Containment = k
	return nil
}

// Len returns the number of accepted regions.
func (r *Result) Len() int {
	return len(r.regions)
}

// Empty reports whether no region has been accepted.
func (r *Result) Empty() bool {
	return len(r.regions) == 0
}

// Region returns the i-th accepted region.
func (r *Result) Region(i int) (image.Rectangle, error) {
	if len(r.regions) == 0 {
		return image.Rectangle{}, newError(KindEmptyResult, "region", "the result has no regions")
	}
	if i < 0 || i >= len(r.regions) {
		return image.Rectangle{}, newError(KindIndexOutOfRange, "region",
			fmt.Sprintf("index %d out of range [0, %d)", i, len(r.regions)))
	}
	return r.regions[i], nil
}

// Regions returns a copy of the accepted regions in acceptance order.
func (r *Result) Regions() []image.Rectangle {
	out := make([]image.Rectangle, len(r.regions))
	copy(out, r.regions)
	return out
}

// Add offers a candidate region to the result.
//
// The only error is an unset source bounds; every other outcome is a
// Verdict. Thresholds are truncated to whole pixels before comparison, so
// a candidate is rejected as out of image when
//
//	area(rect) >= area(bounds) || area(rect ∩ bounds) < int(Containment*area(rect))
//
// and as a duplicate of an accepted region r when
//
//	area(r ∩ rect) > int(Overlap*min(area(r), area(rect)))
func (r *Result) Add(rect image.Rectangle) (Verdict, error) {
	if r.bounds.Empty() {
		return VerdictOutOfImage, newError(KindInvalidBounds, "add region", "source bounds are not set")
	}
	if rect.Empty() {
		return VerdictEmpty, nil
	}
	if r.outOfImage(rect) {
		return VerdictOutOfImage, nil
	}
	if r.overlapsAccepted(rect) {
		return VerdictOverlap, nil
	}
	r.regions = append(r.regions, rect)
	return VerdictAccepted, nil
}

// AddAll offers every candidate in order and returns the advisories for
// the ones that were not accepted.
func (r *Result) AddAll(rects []image.Rectangle) (Diagnostics, error) {
	if len(rects) == 0 {
		return Diagnostics{advise(CodeNothingToSet, image.Rectangle{},
			"the list of regions is empty, nothing to set")}.WithClass(r.class), nil
	}

	var diags Diagnostics
	for _, rect := range rects {
		v, err := r.Add(rect)
		if err != nil {
			return diags.WithClass(r.class), err
		}
		switch v {
		case VerdictEmpty:
			diags = append(diags, advise(CodeEmptyRegion, rect, "the region is empty"))
		case VerdictOutOfImage:
			diags = append(diags, advise(CodeOutOfImage, rect, "the region is out of image"))
		case VerdictOverlap:
			diags = append(diags, advise(CodeOverlap, rect, "the region intersects an accepted region"))
		}
	}
	return diags.WithClass(r.class), nil
}

func (r *Result) outOfImage(rect image.Rectangle) bool {
	area := Area(rect)
	if area >= Area(r.bounds) {
		return true
	}
	inside := Area(r.bounds.Intersect(rect))
	return inside < int(r.coeffs.Containment*float64(area))
}

func (r *Result) overlapsAccepted(rect image.Rectangle) bool {
	area := Area(rect)
	for _, accepted := range r.regions {
		smaller := Area(accepted)
		if area < smaller {
			smaller = area
		}
		if Area(accepted.Intersect(rect)) > int(r.coeffs.Overlap*float64(smaller)) {
			return true
		}
	}
	return false
}
