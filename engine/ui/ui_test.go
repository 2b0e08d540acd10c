package ui

import (
	"errors"
	"image/color"
	"testing"

	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
	"github.com/hubastard/framekit/engine/platform"
)

func newLoop(t *testing.T) (*core.Controller, *platform.MemorySurface) {
	t.Helper()
	s := platform.NewMemorySurface(nil)
	c, err := core.NewController(s, s)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Start(200, 100); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Shutdown() })
	return c, s
}

// step delivers each message on its own tick.
func step(t *testing.T, c *core.Controller, s *platform.MemorySurface, msgs ...core.Message) {
	t.Helper()
	if len(msgs) == 0 {
		if err := c.Tick(); err != nil {
			t.Fatal(err)
		}
		return
	}
	for _, m := range msgs {
		s.Push(m)
		if err := c.Tick(); err != nil {
			t.Fatal(err)
		}
	}
}

func move(x, y int) core.Message { return core.Message{Kind: core.MsgMouseMove, X: x, Y: y} }

var (
	leftDown = core.Message{Kind: core.MsgLeftDown}
	leftUp   = core.Message{Kind: core.MsgLeftUp}
)

type counts struct{ in, out, click int }

func watch(b *ClickButton) *counts {
	n := &counts{}
	b.OnMouseIn(func(*ClickButton) { n.in++ })
	b.OnMouseOut(func(*ClickButton) { n.out++ })
	b.OnClick(func(*ClickButton) { n.click++ })
	return n
}

func TestClickButtonSequences(t *testing.T) {
	rect := core.Rect{Left: 10, Top: 10, Right: 60, Bottom: 40}
	tests := []struct {
		name  string
		inact bool
		msgs  []core.Message
		want  counts
		hover bool
	}{
		{"hover in", false, []core.Message{move(20, 20)}, counts{in: 1}, true},
		{"hover in and out", false, []core.Message{move(20, 20), move(100, 90)}, counts{in: 1, out: 1}, false},
		{"edge is inside", false, []core.Message{move(60, 40)}, counts{in: 1}, true},
		{"click", false, []core.Message{move(20, 20), leftDown, leftUp}, counts{in: 1, click: 1}, true},
		{"press outside", false, []core.Message{leftDown, move(20, 20), leftUp}, counts{in: 1}, true},
		{"leave while pressed", false, []core.Message{move(20, 20), leftDown, move(100, 90), move(20, 20), leftUp}, counts{in: 2, out: 1}, true},
		{"right button", false, []core.Message{move(20, 20), {Kind: core.MsgRightDown}, {Kind: core.MsgRightUp}}, counts{in: 1}, true},
		{"inactive", true, []core.Message{move(20, 20), leftDown, leftUp}, counts{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, s := newLoop(t)
			b, err := NewClickButton(c, rect)
			if err != nil {
				t.Fatal(err)
			}
			b.SetActive(!tt.inact)
			n := watch(b)
			step(t, c, s, tt.msgs...)
			if *n != tt.want {
				t.Fatalf("counts = %+v, want %+v", *n, tt.want)
			}
			if b.Hovered() != tt.hover {
				t.Fatalf("hovered = %v, want %v", b.Hovered(), tt.hover)
			}
		})
	}
}

func TestClickButtonIdleTicksDoNotRefire(t *testing.T) {
	c, s := newLoop(t)
	b, _ := NewClickButton(c, core.Rect{Left: 0, Top: 0, Right: 50, Bottom: 50})
	n := watch(b)
	step(t, c, s, move(10, 10))
	step(t, c, s)
	step(t, c, s)
	if n.in != 1 {
		t.Fatalf("mouse-in fired %d times", n.in)
	}
}

func TestClickButtonClose(t *testing.T) {
	c, s := newLoop(t)
	b, _ := NewClickButton(c, core.Rect{Left: 0, Top: 0, Right: 50, Bottom: 50})
	n := watch(b)
	var presses []MouseButton
	b.OnPress(func(m MouseButton) { presses = append(presses, m) })

	step(t, c, s, core.Message{Kind: core.MsgMidDown})
	if len(presses) != 1 || presses[0] != MidClick {
		t.Fatalf("presses = %v", presses)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	_ = b.Close()
	step(t, c, s, move(10, 10), leftDown, leftUp)
	if *n != (counts{}) || len(presses) != 1 {
		t.Fatalf("closed button still notified: %+v %v", *n, presses)
	}
}

func TestClickButtonPermissions(t *testing.T) {
	c, _ := newLoop(t)
	b, _ := NewClickButton(c, core.Rect{})
	if !b.Permissions().Has(CanClick | CanGetFrame) {
		t.Fatalf("permissions = %b", b.Permissions())
	}
	if b.Permissions().Has(CanGetDown) {
		t.Fatal("click button should not answer Down")
	}
	for name, fn := range map[string]func() error{
		"down":  func() error { _, err := b.Down(); return err },
		"up":    func() error { _, err := b.Up(); return err },
		"state": func() error { _, err := b.State(); return err },
		"power": func() error { _, err := b.Power(); return err },
	} {
		if err := fn(); !errors.Is(err, core.ErrUnsupportedOperation) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
	if f, err := b.Frame(); err != nil || f != c.Frame() {
		t.Fatalf("Frame = %d, %v", f, err)
	}
	if _, err := NewClickButton(nil, core.Rect{}); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("nil host: %v", err)
	}
}

func TestKeyButton(t *testing.T) {
	c, s := newLoop(t)
	b := NewKeyButton(c, core.KeyA)

	type want struct{ down, up, state bool }
	check := func(w want) {
		t.Helper()
		down, _ := b.Down()
		up, _ := b.Up()
		state, _ := b.State()
		if got := (want{down, up, state}); got != w {
			t.Fatalf("key button = %+v, want %+v", got, w)
		}
	}

	step(t, c, s, core.Message{Kind: core.MsgKeyDown, Key: core.KeyA})
	check(want{down: true, state: true})
	if p, _ := b.Power(); p != 1 {
		t.Fatalf("power = %v", p)
	}
	step(t, c, s)
	check(want{state: true})
	step(t, c, s, core.Message{Kind: core.MsgKeyUp, Key: core.KeyA})
	check(want{up: true})
	if p, _ := b.Power(); p != 0 {
		t.Fatalf("power = %v", p)
	}
	if f, _ := b.Frame(); f != 3 {
		t.Fatalf("frame = %d", f)
	}
	if b.String() != "A" {
		t.Fatalf("String = %q", b.String())
	}

	unbound := &KeyButton{Key: core.KeyA}
	if _, err := unbound.State(); !errors.Is(err, core.ErrUnsupportedOperation) {
		t.Fatalf("unbound State: %v", err)
	}
	if _, err := unbound.Frame(); !errors.Is(err, core.ErrUnsupportedOperation) {
		t.Fatalf("unbound Frame: %v", err)
	}
}

func TestRectButtonRendersState(t *testing.T) {
	c, s := newLoop(t)
	b, err := NewRectButton(c, s, core.Rect{Left: 10, Top: 10, Right: 80, Bottom: 40}, "OK")
	if err != nil {
		t.Fatal(err)
	}
	b.FillColor, b.HoverColor, b.PressColor = colors.Blue, colors.Green, colors.Red
	if err := c.Register(b); err != nil {
		t.Fatal(err)
	}

	px := func() color.RGBA { return s.Frame().RGBAAt(12, 12) }
	tests := []struct {
		name string
		msg  []core.Message
		want color.RGBA
	}{
		{"idle", nil, color.RGBA{0, 0, 0xFF, 0xFF}},
		{"hover", []core.Message{move(30, 20)}, color.RGBA{0, 0xFF, 0, 0xFF}},
		{"press", []core.Message{leftDown}, color.RGBA{0xFF, 0, 0, 0xFF}},
		{"release", []core.Message{leftUp}, color.RGBA{0, 0xFF, 0, 0xFF}},
		{"leave", []core.Message{move(150, 90)}, color.RGBA{0, 0, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		step(t, c, s, tt.msg...)
		if got := px(); got != tt.want {
			t.Fatalf("%s: pixel = %v, want %v", tt.name, got, tt.want)
		}
	}
	if got := s.Frame().RGBAAt(10, 10); got != (color.RGBA{0, 0, 0, 0xFF}) {
		t.Fatalf("outline pixel = %v", got)
	}
	if b.Layer() != DefaultButtonLayer {
		t.Fatalf("layer = %d", b.Layer())
	}
}

func TestRectButtonClipsLabel(t *testing.T) {
	c, s := newLoop(t)
	r := core.Rect{Left: 10, Top: 10, Right: 30, Bottom: 40}
	b, err := NewRectButton(c, s, r, "WWWWWWWWWW")
	if err != nil {
		t.Fatal(err)
	}
	b.FillColor, b.TextColor = colors.Blue, colors.White
	if err := c.Register(b); err != nil {
		t.Fatal(err)
	}
	step(t, c, s)

	img := s.Frame()
	black := color.RGBA{0, 0, 0, 0xFF}
	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	inside := false
	for y := r.Top; y <= r.Bottom; y++ {
		for x := 0; x < 70; x++ {
			px := img.RGBAAt(x, y)
			if r.Contains(core.Point{X: x, Y: y}) {
				inside = inside || px == white
				continue
			}
			if px != black {
				t.Fatalf("label leaked to (%d,%d): %v", x, y, px)
			}
		}
	}
	if !inside {
		t.Fatal("label not drawn inside the button")
	}
}
