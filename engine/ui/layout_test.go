package ui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
)

const sampleLayout = `
buttons:
  - name: start
    text: Start
    rect: [20, 20, 140, 60]
    fill: "#102030"
    hover: orange
  - name: quit
    text: Quit
    rect: [20, 80, 140, 120]
    layer: 3
    inactive: true
  - text: unnamed
    rect: [0, 0, 1, 1]
`

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout([]byte(sampleLayout))
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Buttons) != 3 {
		t.Fatalf("buttons = %d", len(l.Buttons))
	}
	if l.Buttons[0].Fill == nil || *l.Buttons[0].Fill != colors.RGB8(0x10, 0x20, 0x30) {
		t.Fatalf("fill = %v", l.Buttons[0].Fill)
	}
	if l.Buttons[1].Layer == nil || *l.Buttons[1].Layer != 3 {
		t.Fatal("layer not parsed")
	}
}

func TestParseLayoutErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":    "buttons: [",
		"inverted":  "buttons:\n  - rect: [10, 10, 0, 0]\n",
		"duplicate": "buttons:\n  - name: a\n  - name: a\n",
		"color":     "buttons:\n  - fill: notacolor\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseLayout([]byte(in)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	_, err := ParseLayout([]byte(tests["inverted"]))
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("inverted: %v", err)
	}
}

func TestLayoutBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buttons.yaml")
	if err := os.WriteFile(path, []byte(sampleLayout), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadLayout(path)
	if err != nil {
		t.Fatal(err)
	}
	c, s := newLoop(t)
	list, byName, err := l.Build(c, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || len(byName) != 2 {
		t.Fatalf("built %d buttons, %d named", len(list), len(byName))
	}
	start, quit := byName["start"], byName["quit"]
	if start.Text != "Start" || start.HoverColor != colors.Orange || start.LineColor != colors.Black {
		t.Fatalf("start = %+v", start)
	}
	if start.Layer() != DefaultButtonLayer || quit.Layer() != 3 {
		t.Fatalf("layers = %d, %d", start.Layer(), quit.Layer())
	}
	if !start.Active() || quit.Active() {
		t.Fatal("active flags wrong")
	}
	if start.Rect != (core.Rect{Left: 20, Top: 20, Right: 140, Bottom: 60}) {
		t.Fatalf("rect = %+v", start.Rect)
	}

	if _, err := LoadLayout(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
}
