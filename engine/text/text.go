// Package text lays out and rasterizes single-face bitmap text for the
// surface painters.
package text

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Face is the face every painter draws with.
var Face font.Face = basicfont.Face7x13

func metrics() (ascent, lineH int) {
	m := Face.Metrics()
	return m.Ascent.Ceil(), m.Height.Ceil()
}

// LineHeight is the distance between two baselines in pixels.
func LineHeight() int {
	_, h := metrics()
	return h
}

// Measure returns the pixel size of s; lines are split on '\n'.
func Measure(s string) (width, height int) {
	lines := strings.Split(s, "\n")
	for _, l := range lines {
		width = max(width, font.MeasureString(Face, l).Ceil())
	}
	return width, len(lines) * LineHeight()
}

// Draw renders s with its top-left corner at p.
func Draw(dst draw.Image, p image.Point, s string, c color.Color) {
	ascent, lineH := metrics()
	d := font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: Face}
	for i, l := range strings.Split(s, "\n") {
		d.Dot = fixed.P(p.X, p.Y+ascent+i*lineH)
		d.DrawString(l)
	}
}

// Rasterize renders s into a coverage mask sized to fit it exactly.
func Rasterize(s string) *image.Alpha {
	w, h := Measure(s)
	mask := image.NewAlpha(image.Rect(0, 0, max(w, 1), max(h, 1)))
	Draw(mask, image.Point{}, s, color.Opaque)
	return mask
}
