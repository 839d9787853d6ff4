package nbt

import (
	"errors"
	"math"
	"testing"
)

func TestCursorBigEndianScalars(t *testing.T) {
	c := &cursor{data: []byte{
		0x12, 0x34, // i16
		0x80, 0x00, 0x00, 0x01, // i32 (negative)
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // i64 = -1
	}}

	if v, err := c.readI16(); err != nil || v != 0x1234 {
		t.Fatalf("readI16: got %v, %v", v, err)
	}
	if v, err := c.readI32(); err != nil || v != -2147483647 {
		t.Fatalf("readI32: got %v, %v", v, err)
	}
	if v, err := c.readI64(); err != nil || v != -1 {
		t.Fatalf("readI64: got %v, %v", v, err)
	}
	if c.remaining() != 0 {
		t.Fatalf("remaining: got %d", c.remaining())
	}
}

func TestCursorFloatBitPatterns(t *testing.T) {
	// 1.5f = 0x3FC00000, -2.25 = 0xC002000000000000
	c := &cursor{data: []byte{
		0x3F, 0xC0, 0x00, 0x00,
		0xC0, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}}
	if v, err := c.readF32(); err != nil || v != 1.5 {
		t.Fatalf("readF32: got %v, %v", v, err)
	}
	if v, err := c.readF64(); err != nil || v != -2.25 {
		t.Fatalf("readF64: got %v, %v", v, err)
	}
}

func TestCursorFloatNaNPreserved(t *testing.T) {
	bits := math.Float32bits(float32(math.NaN()))
	c := &cursor{data: []byte{
		byte(bits >> 24), byte(bits >> 16), byte(bits >> 8), byte(bits),
	}}
	v, err := c.readF32()
	if err != nil {
		t.Fatalf("readF32: %v", err)
	}
	if !math.IsNaN(float64(v)) {
		t.Fatalf("got %v, want NaN", v)
	}
}

func TestCursorEOFReportsStartOffset(t *testing.T) {
	c := &cursor{data: []byte{0x00, 0x01, 0x02}}
	if _, err := c.readN(2); err != nil {
		t.Fatalf("readN(2): %v", err)
	}
	_, err := c.readN(2)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("got %v, want ErrUnexpectedEOF", err)
	}
	var oe *OffsetError
	if !errors.As(err, &oe) || oe.Offset != 2 {
		t.Fatalf("offset: got %v, want 2", err)
	}
	// A failed read must not advance the offset.
	if c.off != 2 {
		t.Fatalf("offset advanced on failed read: %d", c.off)
	}
}

func TestCursorReadString(t *testing.T) {
	c := &cursor{data: []byte{0x00, 0x05, 'h', 0xC3, 0xA9, 'l', 'o'}}
	s, err := c.readString()
	if err != nil {
		t.Fatalf("readString: %v", err)
	}
	if s != "hélo" {
		t.Fatalf("got %q", s)
	}
}

func TestCursorReadStringTruncated(t *testing.T) {
	c := &cursor{data: []byte{0x00, 0x08, 'a', 'b'}}
	_, err := c.readString()
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("got %v, want ErrUnexpectedEOF", err)
	}
	var oe *OffsetError
	if !errors.As(err, &oe) || oe.Offset != 0 {
		t.Fatalf("offset: got %v, want 0 (the length field)", err)
	}
}

func TestCursorReadStringInvalidUTF8(t *testing.T) {
	c := &cursor{data: []byte{0x00, 0x02, 0xFF, 0xFE}}
	if _, err := c.readString(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("got %v, want ErrCorrupt", err)
	}
}
