package text

import (
	"image"
	"image/color"
	"testing"
)

func TestMeasure(t *testing.T) {
	tests := []struct {
		in   string
		w, h int
	}{
		{"", 0, 13},
		{"A", 7, 13},
		{"Start", 35, 13},
		{"ab\nlonger", 42, 26},
	}
	for _, tt := range tests {
		w, h := Measure(tt.in)
		if w != tt.w || h != tt.h {
			t.Errorf("Measure(%q) = %dx%d, want %dx%d", tt.in, w, h, tt.w, tt.h)
		}
	}
}

func TestDrawInkStaysInBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	Draw(img, image.Pt(2, 2), "Hi", color.White)

	inked := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if img.RGBAAt(x, y).A == 0 {
				continue
			}
			inked++
			if x < 2 || x >= 2+14 || y < 2 || y >= 2+13 {
				t.Fatalf("ink outside text box at (%d,%d)", x, y)
			}
		}
	}
	if inked == 0 {
		t.Fatal("nothing drawn")
	}
}

func TestRasterize(t *testing.T) {
	m := Rasterize("ok")
	if b := m.Bounds(); b.Dx() != 14 || b.Dy() != 13 {
		t.Fatalf("bounds = %v", b)
	}
}
