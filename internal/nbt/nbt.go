// Package nbt decodes Named Binary Tag documents, the hierarchical binary
// serialization format used by Minecraft and its mod ecosystem. Input may be
// raw or gzip-compressed. All multi-byte values are big-endian.
package nbt

import "fmt"

// TagType identifies one of the twelve NBT payload shapes, plus the End
// marker that terminates a compound.
type TagType byte

const (
	TypeEnd       TagType = 0
	TypeByte      TagType = 1
	TypeShort     TagType = 2
	TypeInt       TagType = 3
	TypeLong      TagType = 4
	TypeFloat     TagType = 5
	TypeDouble    TagType = 6
	TypeByteArray TagType = 7
	TypeString    TagType = 8
	TypeList      TagType = 9
	TypeCompound  TagType = 10
	TypeIntArray  TagType = 11
	TypeLongArray TagType = 12
)

func (t TagType) String() string {
	switch t {
	case TypeEnd:
		return "end"
	case TypeByte:
		return "byte"
	case TypeShort:
		return "short"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeByteArray:
		return "byte_array"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeCompound:
		return "compound"
	case TypeIntArray:
		return "int_array"
	case TypeLongArray:
		return "long_array"
	default:
		return fmt.Sprintf("type(%d)", byte(t))
	}
}

// minPayloadSize is the smallest possible encoded size of a payload of the
// given type, used to bound declared list lengths against the remaining
// buffer before allocating.
func minPayloadSize(t TagType) int {
	switch t {
	case TypeByte:
		return 1
	case TypeShort, TypeString:
		return 2
	case TypeInt, TypeFloat, TypeByteArray, TypeIntArray, TypeLongArray:
		return 4
	case TypeLong, TypeDouble:
		return 8
	case TypeList:
		return 5 // element type byte + i32 length
	case TypeCompound:
		return 1 // a lone end marker
	default:
		return 1
	}
}

// Tag is the closed set of NBT payload values. Exactly one concrete type
// exists per TagType; nothing outside this package can add more.
type Tag interface {
	Type() TagType
	sealed()
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
	IntArray  []int32
	LongArray []int64
)

// List is a homogeneous ordered sequence of tags. Elem is the declared
// element type; every entry in Items carries that type.
type List struct {
	Elem  TagType
	Items []Tag
}

func (Byte) Type() TagType      { return TypeByte }
func (Short) Type() TagType     { return TypeShort }
func (Int) Type() TagType       { return TypeInt }
func (Long) Type() TagType      { return TypeLong }
func (Float) Type() TagType     { return TypeFloat }
func (Double) Type() TagType    { return TypeDouble }
func (ByteArray) Type() TagType { return TypeByteArray }
func (String) Type() TagType    { return TypeString }
func (List) Type() TagType      { return TypeList }
func (*Compound) Type() TagType { return TypeCompound }
func (IntArray) Type() TagType  { return TypeIntArray }
func (LongArray) Type() TagType { return TypeLongArray }

func (Byte) sealed()      {}
func (Short) sealed()     {}
func (Int) sealed()       {}
func (Long) sealed()      {}
func (Float) sealed()     {}
func (Double) sealed()    {}
func (ByteArray) sealed() {}
func (String) sealed()    {}
func (List) sealed()      {}
func (*Compound) sealed() {}
func (IntArray) sealed()  {}
func (LongArray) sealed() {}

// NamedTag pairs a tag with its name. The document root is always a
// NamedTag whose value is a *Compound.
type NamedTag struct {
	Name string
	Tag  Tag
}

// Compound is an insertion-ordered mapping from names to tags. Writing a
// duplicate key overwrites the value but keeps the key's first-seen
// position; the format tolerates duplicates even though well-formed
// documents never contain them.
type Compound struct {
	keys   []string
	values map[string]Tag
}

func NewCompound() *Compound {
	return &Compound{values: make(map[string]Tag)}
}

func (c *Compound) Put(name string, t Tag) {
	if _, ok := c.values[name]; !ok {
		c.keys = append(c.keys, name)
	}
	c.values[name] = t
}

func (c *Compound) Get(name string) (Tag, bool) {
	t, ok := c.values[name]
	return t, ok
}

func (c *Compound) Len() int { return len(c.keys) }

// Keys returns the key names in first-seen order. The returned slice is
// owned by the compound; callers must not modify it.
func (c *Compound) Keys() []string { return c.keys }

// GetInt returns the named tag as an int32 if present and int-typed.
func (c *Compound) GetInt(name string) (int32, bool) {
	t, ok := c.values[name]
	if !ok {
		return 0, false
	}
	v, ok := t.(Int)
	return int32(v), ok
}

// GetString returns the named tag as a string if present and string-typed.
func (c *Compound) GetString(name string) (string, bool) {
	t, ok := c.values[name]
	if !ok {
		return "", false
	}
	v, ok := t.(String)
	return string(v), ok
}

// GetList returns the named tag as a List if present and list-typed.
func (c *Compound) GetList(name string) (List, bool) {
	t, ok := c.values[name]
	if !ok {
		return List{}, false
	}
	v, ok := t.(List)
	return v, ok
}

// GetIntArray returns the named tag as an int array if present and so typed.
func (c *Compound) GetIntArray(name string) (IntArray, bool) {
	t, ok := c.values[name]
	if !ok {
		return nil, false
	}
	v, ok := t.(IntArray)
	return v, ok
}

// GetCompound returns the named tag as a nested compound if present and so
// typed.
func (c *Compound) GetCompound(name string) (*Compound, bool) {
	t, ok := c.values[name]
	if !ok {
		return nil, false
	}
	v, ok := t.(*Compound)
	return v, ok
}
