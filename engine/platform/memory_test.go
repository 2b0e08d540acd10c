package platform

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
)

func openSurface(t *testing.T, w, h int) *MemorySurface {
	t.Helper()
	s := NewMemorySurface(nil)
	if err := s.Open(w, h); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemorySurfaceLifecycle(t *testing.T) {
	s := NewMemorySurface(nil)
	if s.IsOpen() {
		t.Fatal("open before Open")
	}
	if _, err := s.GraphicsContext(); !errors.Is(err, core.ErrWindowNotInitialized) {
		t.Fatalf("GraphicsContext before Open: %v", err)
	}
	if err := s.Resize(10, 10); !errors.Is(err, core.ErrWindowNotInitialized) {
		t.Fatalf("Resize before Open: %v", err)
	}
	if err := s.Open(0, 10); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("Open(0,10): %v", err)
	}
	if err := s.Open(32, 16); err != nil {
		t.Fatal(err)
	}
	if err := s.Open(32, 16); !errors.Is(err, core.ErrAlreadyStarted) {
		t.Fatalf("second Open: %v", err)
	}
	if s.Width() != 32 || s.Height() != 16 {
		t.Fatalf("size = %dx%d", s.Width(), s.Height())
	}
	if err := s.Resize(8, 4); err != nil {
		t.Fatal(err)
	}
	if s.Width() != 8 || s.Height() != 4 {
		t.Fatalf("size after resize = %dx%d", s.Width(), s.Height())
	}

	gc, err := s.GraphicsContext()
	if err != nil {
		t.Fatal(err)
	}
	if s.LiveContexts() != 1 {
		t.Fatalf("live contexts = %d", s.LiveContexts())
	}
	_ = gc.Release()
	_ = gc.Release()
	if s.LiveContexts() != 0 {
		t.Fatalf("live contexts after release = %d", s.LiveContexts())
	}

	_ = s.Close()
	if s.IsOpen() || s.Frame() != nil {
		t.Fatal("still open after Close")
	}
}

func TestClearFillPresent(t *testing.T) {
	s := openSurface(t, 10, 10)
	s.Clear(colors.Blue)
	s.FillRect(core.Rect{Left: 2, Top: 2, Right: 4, Bottom: 4}, colors.Red)

	if px := s.Frame().RGBAAt(3, 3); px.A != 0 {
		t.Fatalf("back buffer visible before Present: %v", px)
	}
	s.Present()
	img := s.Frame()
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{0, 0, 0xFF, 0xFF}},
		{2, 2, color.RGBA{0xFF, 0, 0, 0xFF}},
		{4, 4, color.RGBA{0xFF, 0, 0, 0xFF}},
		{5, 5, color.RGBA{0, 0, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if s.Presents() != 1 {
		t.Fatalf("presents = %d", s.Presents())
	}
}

func TestPresentRegion(t *testing.T) {
	s := openSurface(t, 10, 10)
	s.Clear(colors.White)
	s.PresentRegion(core.Rect{Left: 0, Top: 0, Right: 5, Bottom: 5})
	img := s.Frame()
	if img.RGBAAt(1, 1).A != 0xFF {
		t.Fatal("region not presented")
	}
	if img.RGBAAt(8, 8).A != 0 {
		t.Fatal("outside region presented")
	}
}

func TestStrokeAndText(t *testing.T) {
	s := openSurface(t, 40, 20)
	s.StrokeRect(core.Rect{Left: 1, Top: 1, Right: 30, Bottom: 18}, colors.Green)
	s.DrawText(core.Point{X: 3, Y: 3}, "ok", colors.White)
	s.Present()
	img := s.Frame()
	if img.RGBAAt(30, 18).G != 0xFF || img.RGBAAt(1, 10).G != 0xFF {
		t.Fatal("outline missing")
	}
	if img.RGBAAt(25, 10).A != 0 {
		t.Fatal("outline drawn inside")
	}
	inked := false
	for y := 3; y < 16 && !inked; y++ {
		for x := 3; x < 17; x++ {
			if px := img.RGBAAt(x, y); px.R == 0xFF && px.G == 0xFF {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Fatal("text not drawn")
	}
}

func TestMessageQueueFilter(t *testing.T) {
	s := NewMemorySurface(nil)
	s.Push(
		core.Message{Kind: core.MsgMouseMove, X: 1},
		core.Message{Kind: core.MsgKeyDown, Key: core.KeyA},
		core.Message{Kind: core.MsgChar, Char: 'a'},
	)

	m, ok := s.TryGetMessage(core.FilterKey, false)
	if !ok || m.Key != core.KeyA {
		t.Fatalf("peek key = %+v, %v", m, ok)
	}
	if s.Queued() != 3 {
		t.Fatalf("peek removed a message")
	}
	if m, _ = s.TryGetMessage(core.FilterKey, true); m.Kind != core.MsgKeyDown {
		t.Fatalf("take key = %+v", m)
	}
	if _, ok := s.TryGetMessage(core.FilterKey, true); ok {
		t.Fatal("key message taken twice")
	}
	for _, want := range []core.MessageKind{core.MsgMouseMove, core.MsgChar} {
		m, ok := s.TryGetMessage(core.FilterAll, true)
		if !ok || m.Kind != want {
			t.Fatalf("take = %+v, %v; want %v", m, ok, want)
		}
	}
	if _, ok := s.TryGetMessage(core.FilterAll, true); ok {
		t.Fatal("queue not drained")
	}
}

func TestScriptedPrompter(t *testing.T) {
	p := NewScriptedPrompter(
		PromptReply{Text: "hello"},
		PromptReply{Cancelled: true},
		PromptReply{Err: errors.New("boom")},
	)
	ctx := context.Background()
	req := core.PromptRequest{Title: "name"}

	if text, ok, err := p.Prompt(ctx, req); text != "hello" || !ok || err != nil {
		t.Fatalf("first = %q %v %v", text, ok, err)
	}
	if _, ok, err := p.Prompt(ctx, req); ok || err != nil {
		t.Fatalf("second = %v %v", ok, err)
	}
	if _, _, err := p.Prompt(ctx, req); err == nil {
		t.Fatal("third should fail")
	}
	if _, ok, _ := p.Prompt(ctx, req); ok {
		t.Fatal("exhausted prompter should cancel")
	}
	if n := len(p.Requests()); n != 4 {
		t.Fatalf("requests = %d", n)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := p.Prompt(cancelled, req); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled ctx: %v", err)
	}
}

func TestClip(t *testing.T) {
	s := openSurface(t, 20, 20)
	s.SetClip(core.Rect{Left: 5, Top: 5, Right: 9, Bottom: 9})
	s.FillRect(core.Rect{Left: 0, Top: 0, Right: 19, Bottom: 19}, colors.Red)
	s.SetClip(core.Rect{})
	s.FillRect(core.Rect{Left: 15, Top: 15, Right: 16, Bottom: 16}, colors.Blue)
	s.Present()

	img := s.Frame()
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{5, 5, color.RGBA{0xFF, 0, 0, 0xFF}},
		{9, 9, color.RGBA{0xFF, 0, 0, 0xFF}},
		{4, 5, color.RGBA{}},
		{10, 9, color.RGBA{}},
		{16, 16, color.RGBA{0, 0, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
