// Package scratch provides a reusable byte buffer for building per-frame
// strings without going through fmt.
package scratch

import (
	"strconv"
	"unicode/utf8"
	"unsafe"
)

// Buffer is a growable byte buffer meant to be Reset once per frame. It is
// not safe for concurrent use.
type Buffer struct {
	buf []byte
}

// New returns a buffer with the given initial capacity; capacity <= 0 picks
// 1 KiB.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// Reset clears the buffer length without freeing memory.
func (b *Buffer) Reset() *Buffer {
	b.buf = b.buf[:0]
	return b
}

func (b *Buffer) Len() int { return len(b.buf) }
func (b *Buffer) Cap() int { return cap(b.buf) }

// Grow makes room for at least n more bytes.
func (b *Buffer) Grow(n int) {
	if len(b.buf)+n <= cap(b.buf) {
		return
	}
	nb := make([]byte, len(b.buf), 2*cap(b.buf)+n)
	copy(nb, b.buf)
	b.buf = nb
}

// Mark returns a bookmark for StringFrom.
func (b *Buffer) Mark() int { return len(b.buf) }

// StringFrom copies everything appended since mark.
func (b *Buffer) StringFrom(mark int) string { return string(b.buf[mark:]) }

func (b *Buffer) Bytes() []byte { return b.buf }

// String copies the whole buffer.
func (b *Buffer) String() string { return string(b.buf) }

// View returns a string sharing the buffer's memory. It is valid only until
// the next append or Reset.
func (b *Buffer) View() string {
	if len(b.buf) == 0 {
		return ""
	}
	return unsafe.String(&b.buf[0], len(b.buf))
}

// S appends a string.
func (b *Buffer) S(s string) *Buffer {
	b.buf = append(b.buf, s...)
	return b
}

// C appends a single byte.
func (b *Buffer) C(c byte) *Buffer {
	b.buf = append(b.buf, c)
	return b
}

// R appends a rune as UTF-8.
func (b *Buffer) R(r rune) *Buffer {
	b.buf = utf8.AppendRune(b.buf, r)
	return b
}

// I appends a base-10 integer.
func (b *Buffer) I(v int) *Buffer {
	b.buf = strconv.AppendInt(b.buf, int64(v), 10)
	return b
}

// U appends an unsigned base-10 integer.
func (b *Buffer) U(v uint64) *Buffer {
	b.buf = strconv.AppendUint(b.buf, v, 10)
	return b
}

// F appends v with prec digits after the decimal point.
func (b *Buffer) F(v float64, prec int) *Buffer {
	b.buf = strconv.AppendFloat(b.buf, v, 'f', prec, 64)
	return b
}

func (b *Buffer) Bool(v bool) *Buffer {
	b.buf = strconv.AppendBool(b.buf, v)
	return b
}

// Hex appends u in lower-case hexadecimal without a prefix.
func (b *Buffer) Hex(u uint64) *Buffer {
	b.buf = strconv.AppendUint(b.buf, u, 16)
	return b
}

// Pad appends n copies of c.
func (b *Buffer) Pad(n int, c byte) *Buffer {
	for range n {
		b.buf = append(b.buf, c)
	}
	return b
}

// NL appends a newline.
func (b *Buffer) NL() *Buffer { return b.C('\n') }
