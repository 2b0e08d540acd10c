package ui

import (
	"fmt"
	"os"

	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
	"gopkg.in/yaml.v3"
)

// Layout is a set of rect buttons described in YAML:
//
//	buttons:
//	  - name: start
//	    text: Start
//	    rect: [20, 20, 140, 60]   # left, top, right, bottom
//	    fill: white
//	    hover: "#e0e0e0"
type Layout struct {
	Buttons []ButtonSpec `yaml:"buttons"`
}

type ButtonSpec struct {
	Name      string        `yaml:"name"`
	Text      string        `yaml:"text"`
	Rect      [4]int        `yaml:"rect"`
	Layer     *int          `yaml:"layer"`
	Inactive  bool          `yaml:"inactive"`
	Line      *colors.Color `yaml:"line"`
	Fill      *colors.Color `yaml:"fill"`
	Hover     *colors.Color `yaml:"hover"`
	Press     *colors.Color `yaml:"press"`
	TextColor *colors.Color `yaml:"text_color"`
}

func (s ButtonSpec) rect() core.Rect {
	return core.Rect{Left: s.Rect[0], Top: s.Rect[1], Right: s.Rect[2], Bottom: s.Rect[3]}
}

func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	l, err := ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return l, nil
}

func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(l.Buttons))
	for i, b := range l.Buttons {
		r := b.rect()
		if r.Right < r.Left || r.Bottom < r.Top {
			return nil, fmt.Errorf("button %d (%s): inverted rect %v: %w", i, b.Name, b.Rect, core.ErrInvalidArgument)
		}
		if b.Name == "" {
			continue
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("button %q defined twice: %w", b.Name, core.ErrInvalidArgument)
		}
		seen[b.Name] = true
	}
	return &l, nil
}

// Build creates the buttons in file order. Named buttons are also returned
// by name.
func (l *Layout) Build(h MessageHost, p Painter) ([]*RectButton, map[string]*RectButton, error) {
	list := make([]*RectButton, 0, len(l.Buttons))
	byName := make(map[string]*RectButton, len(l.Buttons))
	for _, s := range l.Buttons {
		b, err := NewRectButton(h, p, s.rect(), s.Text)
		if err != nil {
			for _, made := range list {
				_ = made.Close()
			}
			return nil, nil, err
		}
		if s.Layer != nil {
			b.SetLayer(*s.Layer)
		}
		b.SetActive(!s.Inactive)
		set := func(dst *colors.Color, src *colors.Color) {
			if src != nil {
				*dst = *src
			}
		}
		set(&b.LineColor, s.Line)
		set(&b.FillColor, s.Fill)
		set(&b.HoverColor, s.Hover)
		set(&b.PressColor, s.Press)
		set(&b.TextColor, s.TextColor)

		list = append(list, b)
		if s.Name != "" {
			byName[s.Name] = b
		}
	}
	return list, byName, nil
}
