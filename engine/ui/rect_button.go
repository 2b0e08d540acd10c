package ui

import (
	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
	"github.com/hubastard/framekit/engine/text"
)

// Painter draws flat 2D primitives in pixel coordinates. The platform
// surfaces implement it.
type Painter interface {
	FillRect(r core.Rect, c colors.Color)
	StrokeRect(r core.Rect, c colors.Color)
	DrawText(p core.Point, s string, c colors.Color)
	// SetClip limits later drawing to r; a zero Rect resets it.
	SetClip(r core.Rect)
}

// DefaultButtonLayer is the layer new rect buttons render on.
const DefaultButtonLayer = 10

// RectButton is a ClickButton drawn as a framed box with centered text.
type RectButton struct {
	*ClickButton

	Text       string
	LineColor  colors.Color
	FillColor  colors.Color
	HoverColor colors.Color
	PressColor colors.Color
	TextColor  colors.Color

	painter Painter
}

func NewRectButton(h MessageHost, p Painter, r core.Rect, label string) (*RectButton, error) {
	cb, err := NewClickButton(h, r)
	if err != nil {
		return nil, err
	}
	cb.SetLayer(DefaultButtonLayer)
	return &RectButton{
		ClickButton: cb,
		Text:        label,
		LineColor:   colors.Black,
		FillColor:   colors.White,
		HoverColor:  colors.White,
		PressColor:  colors.Gray,
		TextColor:   colors.Black,
		painter:     p,
	}, nil
}

// Fill returns the fill for the current hover/press state.
func (b *RectButton) Fill() colors.Color {
	switch {
	case b.Pressed():
		return b.PressColor
	case b.Hovered():
		return b.HoverColor
	}
	return b.FillColor
}

func (b *RectButton) Render() {
	if b.painter == nil {
		return
	}
	r := b.Rect
	b.painter.FillRect(r, b.Fill())
	b.painter.StrokeRect(r, b.LineColor)
	if b.Text == "" {
		return
	}
	w, h := text.Measure(b.Text)
	at := core.Point{
		X: r.Left + (r.Width()-w)/2,
		Y: r.Top + (r.Height()-h)/2,
	}
	b.painter.SetClip(r)
	b.painter.DrawText(at, b.Text, b.TextColor)
	b.painter.SetClip(core.Rect{})
}

func (b *RectButton) String() string { return b.Text }
