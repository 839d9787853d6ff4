package nbt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

// allKindsRoot builds a compound exercising every tag kind, including a
// list of compounds and a compound holding a list.
func allKindsRoot() *Compound {
	inner := NewCompound()
	inner.Put("id", Int(7))
	inner.Put("tags", List{Elem: TypeString, Items: []Tag{String("a"), String("b")}})

	entryA := NewCompound()
	entryA.Put("Name", String("minecraft:stone"))
	entryB := NewCompound()
	entryB.Put("Name", String("create:cogwheel"))

	root := NewCompound()
	root.Put("b", Byte(-3))
	root.Put("s", Short(-1024))
	root.Put("i", Int(123456))
	root.Put("l", Long(-9_876_543_210))
	root.Put("f", Float(1.5))
	root.Put("d", Double(-2.25))
	root.Put("bytes", ByteArray{0x01, 0x02, 0xFF})
	root.Put("str", String("héllo"))
	root.Put("palette", List{Elem: TypeCompound, Items: []Tag{entryA, entryB}})
	root.Put("nested", inner)
	root.Put("ints", IntArray{1, -2, 3})
	root.Put("longs", LongArray{4, -5, 6})
	root.Put("empty", List{Elem: TypeCompound})
	return root
}

func TestRoundTripAllKinds(t *testing.T) {
	want := allKindsRoot()
	data := encodeRoot(t, "schematic", want)

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "schematic" {
		t.Fatalf("root name: got %q", got.Name)
	}
	if !reflect.DeepEqual(got.Tag, want) {
		t.Fatalf("tree mismatch:\n got %#v\nwant %#v", got.Tag, want)
	}
}

func TestDecodeIdempotent(t *testing.T) {
	data := encodeRoot(t, "s", allKindsRoot())

	first, err := NewDecoder(Options{}).Decode(data)
	if err != nil {
		t.Fatalf("first decode: %v", err)
	}
	second, err := NewDecoder(Options{}).Decode(data)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("independent decodes of the same buffer differ")
	}
}

func TestEmptyInput(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
}

func TestEndMarkerRoot(t *testing.T) {
	if _, err := Parse([]byte{0x00}); !errors.Is(err, ErrInvalidStructure) {
		t.Fatalf("got %v, want ErrInvalidStructure", err)
	}
}

func TestNonCompoundRoot(t *testing.T) {
	// A root byte tag: id, empty name, payload.
	data := []byte{0x01, 0x00, 0x00, 0x2A}
	if _, err := Parse(data); !errors.Is(err, ErrInvalidStructure) {
		t.Fatalf("got %v, want ErrInvalidStructure", err)
	}
}

func TestUnknownTagType(t *testing.T) {
	var e encoder
	e.u8(byte(TypeCompound))
	e.str("")
	e.u8(13) // one past long array
	e.str("x")
	if _, err := Parse(e.buf.Bytes()); !errors.Is(err, ErrUnknownTagType) {
		t.Fatalf("got %v, want ErrUnknownTagType", err)
	}
}

func TestTruncatedByteArrayFailsAtLengthField(t *testing.T) {
	var e encoder
	e.u8(byte(TypeCompound))
	e.str("") // root header ends at offset 3
	e.u8(byte(TypeByteArray))
	e.str("a")           // length field starts at offset 7
	e.i32(100)           // declares more than remains
	e.u8(0x01)           // only one payload byte present
	wantOff := 7

	_, err := Parse(e.buf.Bytes())
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("got %v, want ErrUnexpectedEOF", err)
	}
	var oe *OffsetError
	if !errors.As(err, &oe) {
		t.Fatalf("error carries no offset: %v", err)
	}
	if oe.Offset != wantOff {
		t.Fatalf("failure offset: got %d, want %d", oe.Offset, wantOff)
	}
}

func TestTruncatedListFailsAtLengthField(t *testing.T) {
	var e encoder
	e.u8(byte(TypeCompound))
	e.str("")
	e.u8(byte(TypeList))
	e.str("l")
	e.u8(byte(TypeLong)) // 8 bytes per element
	lenOff := e.buf.Len()
	e.i32(1 << 20) // impossible with an empty remainder

	_, err := Parse(e.buf.Bytes())
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("got %v, want ErrUnexpectedEOF", err)
	}
	var oe *OffsetError
	if !errors.As(err, &oe) || oe.Offset != lenOff {
		t.Fatalf("failure offset: got %v, want %d", err, lenOff)
	}
}

func TestNegativeLengths(t *testing.T) {
	cases := map[string]TagType{
		"list":       TypeList,
		"byte array": TypeByteArray,
		"int array":  TypeIntArray,
		"long array": TypeLongArray,
	}
	for name, typ := range cases {
		t.Run(name, func(t *testing.T) {
			var e encoder
			e.u8(byte(TypeCompound))
			e.str("")
			e.u8(byte(typ))
			e.str("x")
			if typ == TypeList {
				e.u8(byte(TypeByte))
			}
			e.i32(-1)
			if _, err := Parse(e.buf.Bytes()); !errors.Is(err, ErrInvalidLength) {
				t.Fatalf("got %v, want ErrInvalidLength", err)
			}
		})
	}
}

func TestByteArrayCeiling(t *testing.T) {
	var e encoder
	e.u8(byte(TypeCompound))
	e.str("")
	e.u8(byte(TypeByteArray))
	e.str("big")
	e.i32(maxByteArrayLen + 1)
	if _, err := Parse(e.buf.Bytes()); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("got %v, want ErrInvalidLength for over-ceiling byte array", err)
	}
}

// Depth bombs far past the limit must fail cleanly, not exhaust the stack:
// the guard trips at the configured maximum long before recursion can grow.
func TestMaxDepthExceeded(t *testing.T) {
	const bombDepth = 10_000
	var buf bytes.Buffer
	buf.WriteByte(byte(TypeCompound))
	buf.Write([]byte{0x00, 0x00}) // empty root name
	for range bombDepth {
		buf.WriteByte(byte(TypeCompound))
		var l [2]byte
		binary.BigEndian.PutUint16(l[:], 1)
		buf.Write(l[:])
		buf.WriteByte('c')
	}

	_, err := Parse(buf.Bytes())
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("got %v, want ErrMaxDepthExceeded", err)
	}
}

func TestMaxDepthConfigurable(t *testing.T) {
	inner := NewCompound()
	mid := NewCompound()
	mid.Put("inner", inner)
	root := NewCompound()
	root.Put("mid", mid)
	data := encodeRoot(t, "", root)

	if _, err := NewDecoder(Options{MaxDepth: 3}).Decode(data); err != nil {
		t.Fatalf("depth 3 under limit 3: %v", err)
	}
	if _, err := NewDecoder(Options{MaxDepth: 2}).Decode(data); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("got %v, want ErrMaxDepthExceeded under limit 2", err)
	}
}

func TestListNestingSharesDepthCounter(t *testing.T) {
	// Alternating list-of-list nesting must hit the same guard.
	var e encoder
	e.u8(byte(TypeCompound))
	e.str("")
	e.u8(byte(TypeList))
	e.str("l")
	for range 200 {
		e.u8(byte(TypeList)) // element type: list
		e.i32(1)
	}
	_, err := Parse(e.buf.Bytes())
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("got %v, want ErrMaxDepthExceeded", err)
	}
}

func TestEmptyCompoundList(t *testing.T) {
	root := NewCompound()
	root.Put("empty", List{Elem: TypeCompound})
	data := encodeRoot(t, "", root)

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	list, ok := got.Tag.(*Compound).GetList("empty")
	if !ok {
		t.Fatal("missing empty list")
	}
	if list.Elem != TypeCompound || len(list.Items) != 0 {
		t.Fatalf("got elem=%v len=%d, want compound/0", list.Elem, len(list.Items))
	}
}

func TestDuplicateCompoundKeys(t *testing.T) {
	// Hand-encoded: the test encoder cannot produce duplicates.
	var e encoder
	e.u8(byte(TypeCompound))
	e.str("")
	e.u8(byte(TypeInt))
	e.str("k")
	e.i32(1)
	e.u8(byte(TypeInt))
	e.str("other")
	e.i32(5)
	e.u8(byte(TypeInt))
	e.str("k") // duplicate: overwrites, keeps first-seen position
	e.i32(2)
	e.u8(byte(TypeEnd))

	got, err := Parse(e.buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	c := got.Tag.(*Compound)
	if c.Len() != 2 {
		t.Fatalf("len: got %d, want 2", c.Len())
	}
	if keys := c.Keys(); keys[0] != "k" || keys[1] != "other" {
		t.Fatalf("key order: got %v", keys)
	}
	if v, _ := c.GetInt("k"); v != 2 {
		t.Fatalf("duplicate key value: got %d, want 2", v)
	}
}

func TestInvalidUTF8String(t *testing.T) {
	var e encoder
	e.u8(byte(TypeCompound))
	e.str("")
	e.u8(byte(TypeString))
	e.str("s")
	e.u16(2)
	e.u8(0xC3)
	e.u8(0x28) // invalid UTF-8 sequence
	e.u8(byte(TypeEnd))

	if _, err := Parse(e.buf.Bytes()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("got %v, want ErrCorrupt", err)
	}
}

func TestProgressMonotonic(t *testing.T) {
	root := NewCompound()
	ints := make(IntArray, 50_000)
	for i := range ints {
		ints[i] = int32(i)
	}
	root.Put("data", ints)
	data := encodeRoot(t, "", root)

	var pcts []float64
	_, err := NewDecoder(Options{
		Progress: func(status string, percent float64) {
			pcts = append(pcts, percent)
		},
	}).Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pcts) < 3 {
		t.Fatalf("expected several progress reports, got %d", len(pcts))
	}
	for i := 1; i < len(pcts); i++ {
		if pcts[i] < pcts[i-1] {
			t.Fatalf("progress regressed: %v -> %v", pcts[i-1], pcts[i])
		}
	}
	if last := pcts[len(pcts)-1]; last != 100 {
		t.Fatalf("final percent: got %v, want 100", last)
	}
}

func TestProgressNeverAffectsResult(t *testing.T) {
	data := encodeRoot(t, "s", allKindsRoot())
	plain, err := NewDecoder(Options{}).Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	observed, err := NewDecoder(Options{Progress: func(string, float64) {}}).Decode(data)
	if err != nil {
		t.Fatalf("decode with progress: %v", err)
	}
	if !reflect.DeepEqual(plain, observed) {
		t.Fatal("progress sink changed the decoded tree")
	}
}
