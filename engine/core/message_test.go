package core

import "testing"

func TestExtendedParam(t *testing.T) {
	tests := []struct {
		key      Key
		scan     uint8
		extended bool
		release  bool
		want     uint32
	}{
		{KeyShift, ScanLeftShift, false, false, 0x2A10},
		{KeyShift, ScanRightShift, false, false, 0x3610},
		{KeyCtrl, ScanCtrl, false, false, 0x1D11},
		{KeyCtrl, ScanCtrl, true, false, 0x11D11},
		{KeyAlt, ScanAlt, false, false, 0x3812},
		{KeyAlt, ScanAlt, true, false, 0x13812},
		{KeyShift, ScanLeftShift, false, true, 0x22A10},
		{KeyCtrl, ScanCtrl, true, true, 0x31D11},
	}
	for _, tt := range tests {
		got := ExtendedParam(tt.key, tt.scan, tt.extended, tt.release)
		if got != tt.want {
			t.Errorf("ExtendedParam(%v, %#x, %v, %v) = %#x, want %#x", tt.key, tt.scan, tt.extended, tt.release, got, tt.want)
		}
		k, rel, ok := sideOf(got)
		if !ok || rel != tt.release || k.IsGenericModifier() {
			t.Errorf("sideOf(%#x) = %v, %v, %v", got, k, rel, ok)
		}
	}
}

func TestMessageClass(t *testing.T) {
	tests := []struct {
		kind MessageKind
		want MessageFilter
	}{
		{MsgNone, 0},
		{MsgKeyDown, FilterKey},
		{MsgKeyUp, FilterKey},
		{MsgChar, FilterChar},
		{MsgMouseMove, FilterMouse},
		{MsgMidDouble, FilterMouse},
		{MsgWheel, FilterMouse},
		{MsgSize, FilterWindow},
		{MsgActivate, FilterWindow},
	}
	for _, tt := range tests {
		if got := tt.kind.Class(); got != tt.want {
			t.Errorf("%#x.Class() = %v, want %v", uint16(tt.kind), got, tt.want)
		}
		if tt.want != 0 && !FilterAll.Accepts(tt.kind) {
			t.Errorf("FilterAll rejects %#x", uint16(tt.kind))
		}
	}
	if FilterKey.Accepts(MsgChar) || (FilterKey | FilterChar).Accepts(MsgWheel) {
		t.Fatal("filter accepts foreign class")
	}
}

func TestRectContainsEdges(t *testing.T) {
	r := Rect{Left: 10, Top: 10, Right: 20, Bottom: 30}
	for _, p := range []Point{{10, 10}, {20, 30}, {15, 20}} {
		if !r.Contains(p) {
			t.Errorf("%v should be inside", p)
		}
	}
	for _, p := range []Point{{9, 10}, {21, 30}, {15, 31}} {
		if r.Contains(p) {
			t.Errorf("%v should be outside", p)
		}
	}
	if r.Width() != 10 || r.Height() != 20 {
		t.Fatalf("size = %dx%d", r.Width(), r.Height())
	}
}

func TestKeyString(t *testing.T) {
	tests := map[Key]string{
		KeyA: "A", Key7: "7", KeyF1 + 11: "F12", KeyLeftShift: "LeftShift",
		KeyNumpad0 + 3: "Numpad3", KeyNone: "None", Key(0xFF): "Key(0xff)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Key(%#x).String() = %q, want %q", uint8(k), got, want)
		}
	}
}
