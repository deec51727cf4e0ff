package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Label is one rectangle to outline and caption on an overlay.
type Label struct {
	Text string
	Rect image.Rectangle
}

// OverlayStyle controls how labels are drawn.
type OverlayStyle struct {
	// Thickness is the outline width in pixels.
	Thickness int

	// Color is the outline and text color used when PerClass is false.
	Color color.Color

	// PerClass gives every distinct label text its own hue.
	PerClass bool
}

// DefaultOverlayStyle draws 2px outlines in a single green (0, 230, 0).
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		Thickness: 2,
		Color:     color.NRGBA{R: 0, G: 230, B: 0, A: 255},
	}
}

// ParseHexColor parses "#RRGGBB" or "#RGB" (the leading '#' is optional).
func ParseHexColor(hex string) (color.Color, error) {
	if len(hex) == 0 {
		return nil, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return c.Clamped(), nil
}

// Palette returns n visually distinct colors with evenly spaced hues.
// The result is deterministic so overlays are reproducible.
func Palette(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) * 360.0 / float64(n)
		colors[i] = colorful.Hcl(hue, 0.7, 0.6).Clamped()
	}
	return colors
}

// DrawOverlay returns a copy of img with every label outlined and its text
// written just above the top-left corner.
//
// Labels are drawn in order, so later labels paint over earlier ones where
// they overlap. Rectangles partly outside the image are clipped.
func DrawOverlay(img image.Image, labels []Label, style OverlayStyle) *image.NRGBA {
	out := imaging.Clone(img)
	if len(labels) == 0 {
		return out
	}
	if style.Thickness <= 0 {
		style.Thickness = 2
	}
	if style.Color == nil {
		style.Color = DefaultOverlayStyle().Color
	}

	colors := labelColors(labels, style)
	offset := img.Bounds().Min

	for i, l := range labels {
		// Clone rebases the copy to (0, 0).
		r := l.Rect.Sub(offset)
		c := colors[i]
		drawOutline(out, r, style.Thickness, c)
		drawText(out, l.Text, image.Point{X: r.Min.X, Y: r.Min.Y - 3}, c)
	}
	return out
}

func labelColors(labels []Label, style OverlayStyle) []color.Color {
	colors := make([]color.Color, len(labels))
	if !style.PerClass {
		for i := range colors {
			colors[i] = style.Color
		}
		return colors
	}

	index := make(map[string]int)
	for _, l := range labels {
		if _, ok := index[l.Text]; !ok {
			index[l.Text] = len(index)
		}
	}
	palette := Palette(len(index))
	for i, l := range labels {
		colors[i] = palette[index[l.Text]]
	}
	return colors
}

// drawOutline draws a rectangle border growing inward from r.
func drawOutline(dst *image.NRGBA, r image.Rectangle, thickness int, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), // top
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y), // left
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, e := range edges {
		e = e.Intersect(dst.Bounds())
		if e.Empty() {
			continue
		}
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}

// drawText writes text with its baseline at pos. Text that would start
// above the image is moved down to the first visible line.
func drawText(dst *image.NRGBA, text string, pos image.Point, c color.Color) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()
	if pos.Y < ascent {
		pos.Y = ascent
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(pos.X, pos.Y),
	}
	d.DrawString(text)
}
