package nbt

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// cursor reads big-endian values from a read-only byte buffer, advancing a
// mutable offset. A cursor belongs to exactly one decode call.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) remaining() int { return len(c.data) - c.off }

// readN returns the next n bytes as a subslice of the underlying buffer.
// The failure offset is the position the read started at, so a truncated
// length-prefixed field reports the offset of its length field.
func (c *cursor) readN(n int) ([]byte, error) {
	if n < 0 {
		return nil, errAtf(c.off, ErrInvalidLength, "negative read length %d", n)
	}
	if n > c.remaining() {
		return nil, errAt(c.off, ErrUnexpectedEOF)
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) readU8() (byte, error) {
	if c.remaining() < 1 {
		return 0, errAt(c.off, ErrUnexpectedEOF)
	}
	b := c.data[c.off]
	c.off++
	return b, nil
}

func (c *cursor) readI8() (int8, error) {
	v, err := c.readU8()
	return int8(v), err
}

func (c *cursor) readU16() (uint16, error) {
	b, err := c.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) readI16() (int16, error) {
	v, err := c.readU16()
	return int16(v), err
}

func (c *cursor) readI32() (int32, error) {
	b, err := c.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (c *cursor) readI64() (int64, error) {
	b, err := c.readN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// Floats are the big-endian IEEE-754 bit pattern reinterpreted, never
// composed from reversed byte copies.
func (c *cursor) readF32() (float32, error) {
	b, err := c.readN(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

func (c *cursor) readF64() (float64, error) {
	b, err := c.readN(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// readString reads a u16 length prefix followed by that many bytes of
// strictly valid UTF-8.
func (c *cursor) readString() (string, error) {
	start := c.off
	n, err := c.readU16()
	if err != nil {
		return "", err
	}
	b, err := c.readN(int(n))
	if err != nil {
		return "", errAt(start, ErrUnexpectedEOF)
	}
	if !utf8.Valid(b) {
		return "", errAtf(start, ErrCorrupt, "invalid UTF-8 in string of length %d", n)
	}
	return string(b), nil
}
