package main

import (
	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
	"github.com/hubastard/framekit/engine/ui"
)

// ------- A keyboard-driven square -------
type Player struct {
	in      core.InputQuery
	painter ui.Painter
	bounds  func() (int, int)

	x, y  float64
	size  int
	speed float64 // pixels per second
	color colors.Color
}

func (p *Player) Layer() int   { return 0 }
func (p *Player) Active() bool { return true }

func (p *Player) Start() {
	w, h := p.bounds()
	p.x, p.y = float64(w-p.size)/2, float64(h-p.size)/2
}

// FixedUpdate moves the square with the arrow keys; Shift doubles the speed.
func (p *Player) FixedUpdate(dt float64) {
	step := p.speed * dt
	if p.in.Held(core.KeyShift) || p.in.Held(core.KeyLeftShift) || p.in.Held(core.KeyRightShift) {
		step *= 2
	}
	if p.in.Held(core.KeyLeft) {
		p.x -= step
	}
	if p.in.Held(core.KeyRight) {
		p.x += step
	}
	if p.in.Held(core.KeyUp) {
		p.y -= step
	}
	if p.in.Held(core.KeyDown) {
		p.y += step
	}
	w, h := p.bounds()
	p.x = min(max(p.x, 0), float64(w-p.size))
	p.y = min(max(p.y, 0), float64(h-p.size))
}

func (p *Player) Render() {
	x, y := int(p.x), int(p.y)
	p.painter.FillRect(core.Rect{Left: x, Top: y, Right: x + p.size - 1, Bottom: y + p.size - 1}, p.color)
}
