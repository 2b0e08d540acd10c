package scratch

import "testing"

func TestChainedAppends(t *testing.T) {
	b := New(0)
	b.S("Frame: ").U(42).NL().
		S("  ").F(16.6667, 3).S(" ms").C(' ').Bool(true).NL().
		S("key 0x").Hex(0x1b).C(' ').R('é').Pad(3, '.').I(-7)

	want := "Frame: 42\n  16.667 ms true\nkey 0x1b é...-7"
	if got := b.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if b.View() != want {
		t.Fatalf("view %q", b.View())
	}
	if b.Cap() != 1024 {
		t.Fatalf("cap = %d", b.Cap())
	}
}

func TestMarkAndReset(t *testing.T) {
	b := New(4)
	b.S("head|")
	m := b.Mark()
	b.S("tail")
	if got := b.StringFrom(m); got != "tail" {
		t.Fatalf("StringFrom = %q", got)
	}
	b.Reset()
	if b.Len() != 0 || b.View() != "" {
		t.Fatalf("after reset len=%d view=%q", b.Len(), b.View())
	}
}

func TestGrowKeepsContents(t *testing.T) {
	b := New(2)
	b.S("ab")
	b.Grow(100)
	if b.Cap() < 102 || b.String() != "ab" {
		t.Fatalf("cap=%d contents=%q", b.Cap(), b.String())
	}
	c := b.Cap()
	b.Grow(10)
	if b.Cap() != c {
		t.Fatal("Grow reallocated with room to spare")
	}
}
