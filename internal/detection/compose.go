package detection

import "image"

// OverlayItem is one labelled region in a composed overlay.
type OverlayItem struct {
	Class  string          `json:"class"`
	Region image.Rectangle `json:"region"`
}

// Overlay is the presentation artifact built from one or more pipeline runs.
type Overlay struct {
	Items []OverlayItem `json:"items"`
}

// Len returns the number of items.
func (o Overlay) Len() int {
	return len(o.Items)
}

// Classes returns the distinct class names in first-appearance order.
func (o Overlay) Classes() []string {
	seen := make(map[string]bool)
	classes := make([]string, 0)
	for _, it := range o.Items {
		if !seen[it.Class] {
			seen[it.Class] = true
			classes = append(classes, it.Class)
		}
	}
	return classes
}

// ByClass groups regions per class, preserving order within each class.
func (o Overlay) ByClass() map[string][]image.Rectangle {
	out := make(map[string][]image.Rectangle)
	for _, it := range o.Items {
		out[it.Class] = append(out[it.Class], it.Region)
	}
	return out
}

// Compose concatenates result sets into a single overlay.
//
// Items are emitted in result order, then region order. Results with no
// accepted regions contribute nothing but an advisory. Regions from
// different result sets are never suppressed against each other, even
// when they overlap.
func Compose(sets ...[]*Result) (Overlay, Diagnostics) {
	overlay := Overlay{Items: make([]OverlayItem, 0)}
	var diags Diagnostics

	for _, set := range sets {
		for _, res := range set {
			if res == nil {
				continue
			}
			if res.Empty() {
				diags = append(diags, Advisory{
					Code:    CodeNothingToCompose,
					Class:   res.ClassName(),
					Message: "nothing to visualize, there are no results",
				})
				continue
			}
			for _, region := range res.regions {
				overlay.Items = append(overlay.Items, OverlayItem{
					Class:  res.ClassName(),
					Region: region,
				})
			}
		}
	}
	return overlay, diags
}
