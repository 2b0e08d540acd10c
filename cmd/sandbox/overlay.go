package main

import (
	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
	"github.com/hubastard/framekit/engine/profiler"
	"github.com/hubastard/framekit/engine/scratch"
	"github.com/hubastard/framekit/engine/ui"
)

// ------- Frame statistics drawn on top of everything -------
type Overlay struct {
	ctl     *core.Controller
	painter ui.Painter
	lastKey core.Key
	name    string
	sb      *scratch.Buffer
}

func (o *Overlay) Layer() int   { return 100 }
func (o *Overlay) Active() bool { return true }
func (o *Overlay) Start()       {}

func (o *Overlay) Render() {
	if k := o.ctl.Input().FirstPressed(); k != core.KeyNone {
		o.lastKey = k
	}
	delta := o.ctl.Scheduler().Delta()
	m := o.ctl.Input().Mouse()
	st := profiler.ReadStats()

	b := o.sb.Reset()
	b.S("Frame: ").U(o.ctl.Frame()).NL()
	if delta > 0 {
		b.S("  ").F(delta.Seconds()*1000, 3).S(" ms (").F(1/delta.Seconds(), 1).S(" FPS)").NL()
	}
	b.S("Mouse: ").I(m.Position.X).C(',').I(m.Position.Y).S(" wheel ").I(m.WheelNotches).NL()
	b.S("Last key: ").S(o.lastKey.String()).NL()
	b.S("Memory: ").F(float64(st.Alloc)/(1<<20), 3).S(" MB, ").I(st.Goroutines).S(" goroutines").NL()
	if o.name != "" {
		b.S("Hello, ").S(o.name)
	}
	o.painter.DrawText(core.Point{X: 8, Y: 8}, b.View(), colors.Yellow)
}
