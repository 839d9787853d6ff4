package nbt

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// encoder is a test-only writer for the same grammar the decoder reads,
// kept independent of the decode path so round-trip tests mean something.
type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) u8(b byte) { e.buf.WriteByte(b) }

func (e *encoder) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) i32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	e.buf.Write(b[:])
}

func (e *encoder) i64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	e.buf.Write(b[:])
}

func (e *encoder) str(s string) {
	e.u16(uint16(len(s)))
	e.buf.WriteString(s)
}

func (e *encoder) payload(t *testing.T, tag Tag) {
	t.Helper()
	switch v := tag.(type) {
	case Byte:
		e.u8(byte(v))
	case Short:
		e.u16(uint16(v))
	case Int:
		e.i32(int32(v))
	case Long:
		e.i64(int64(v))
	case Float:
		e.i32(int32(math.Float32bits(float32(v))))
	case Double:
		e.i64(int64(math.Float64bits(float64(v))))
	case ByteArray:
		e.i32(int32(len(v)))
		e.buf.Write(v)
	case String:
		e.str(string(v))
	case List:
		e.u8(byte(v.Elem))
		e.i32(int32(len(v.Items)))
		for _, item := range v.Items {
			e.payload(t, item)
		}
	case *Compound:
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			e.u8(byte(child.Type()))
			e.str(key)
			e.payload(t, child)
		}
		e.u8(byte(TypeEnd))
	case IntArray:
		e.i32(int32(len(v)))
		for _, n := range v {
			e.i32(n)
		}
	case LongArray:
		e.i32(int32(len(v)))
		for _, n := range v {
			e.i64(n)
		}
	default:
		t.Fatalf("encoder: unhandled tag %T", tag)
	}
}

// encodeRoot serializes a named root compound.
func encodeRoot(t *testing.T, name string, c *Compound) []byte {
	t.Helper()
	var e encoder
	e.u8(byte(TypeCompound))
	e.str(name)
	e.payload(t, c)
	return e.buf.Bytes()
}
