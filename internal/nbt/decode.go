package nbt

import (
	"runtime"

	"github.com/schemview/schemview/internal/logger"
)

const (
	// DefaultMaxDepth bounds combined compound/list nesting per decode.
	DefaultMaxDepth = 100

	// Hard ceiling on a single byte array payload.
	maxByteArrayLen = 50 << 20

	// Inputs past this size decode fine but get flagged to the host.
	largeInputBytes = 100 << 20

	// Byte arrays past this size yield before the bulk read.
	largeByteArrayBytes = 1 << 20
)

// Yield schedule. The decoder hands the scheduler a chance to run other
// goroutines at these intervals so one huge document cannot monopolize a
// latency-sensitive host. Checkpoints never change decode results.
const (
	opsPerYield          = 1000
	compoundTagsPerYield = 50
	listElemsPerYield    = 500
	intArrayPerYield     = 10000
	longArrayPerYield    = 5000
)

// Soft observability thresholds. These log a warning and keep going.
const (
	listWarnElems    = 1_000_000
	compoundWarnTags = 10_000
	arrayWarnElems   = 10_000_000
)

// Progress phase floors. Percentages within one decode are non-decreasing
// and partitioned into these ranges; callers may rely on monotonic phase
// progress only, not fine-grained timing.
const (
	pctInit    = 0.0
	pctAnalyze = 5.0
	pctInflate = 10.0
	pctDecode  = 25.0
)

// ProgressFunc receives observability-only status updates during a decode.
// It never affects the returned result.
type ProgressFunc func(status string, percent float64)

// Options configures a Decoder. The zero value uses DefaultMaxDepth, no
// progress sink, and a no-op logger.
type Options struct {
	MaxDepth int
	Progress ProgressFunc
	Logger   logger.Logger
}

// Decoder decodes NBT documents. A Decoder is stateless across calls;
// independent Decoders (or one Decoder on different goroutines with
// different inputs) never interact, since all per-call state lives in the
// decode context.
type Decoder struct {
	maxDepth int
	progress ProgressFunc
	log      logger.Logger
}

func NewDecoder(opts Options) *Decoder {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Decoder{
		maxDepth: opts.MaxDepth,
		progress: opts.Progress,
		log:      opts.Logger,
	}
}

// Parse decodes a document with default options.
func Parse(data []byte) (*NamedTag, error) {
	return NewDecoder(Options{}).Decode(data)
}

// Decode inflates gzip input if present and decodes the document. The root
// must be a named compound. Any failure aborts the whole parse; no partial
// tree is returned. The input buffer is only read, never retained.
func (d *Decoder) Decode(data []byte) (*NamedTag, error) {
	emit := &progressEmitter{fn: d.progress}
	emit.emit("initializing", pctInit)
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if len(data) > largeInputBytes {
		d.log.Warn("oversized input, decoding anyway", "bytes", len(data))
		emit.emit("large file, this may take a while", pctInit)
	}

	emit.emit("analyzing format", pctAnalyze)
	if IsGzip(data) {
		emit.emit("decompressing", pctInflate)
		inflated, err := Decompress(data)
		if err != nil {
			return nil, err
		}
		if len(inflated) == 0 {
			return nil, ErrEmptyInput
		}
		data = inflated
	}

	emit.emit("decoding", pctDecode)
	s := &decodeState{
		cur:      cursor{data: data},
		maxDepth: d.maxDepth,
		log:      d.log,
		emit:     emit,
	}
	root, err := s.readRoot()
	if err != nil {
		return nil, err
	}
	emit.emit("done", 100)
	return root, nil
}

// decodeState is the per-call decode context: cursor offset, nesting depth,
// and the read-operation counter driving the global yield schedule. It is
// created per Decode call and never reused.
type decodeState struct {
	cur      cursor
	depth    int
	maxDepth int
	ops      int
	log      logger.Logger
	emit     *progressEmitter
}

func (s *decodeState) readRoot() (*NamedTag, error) {
	id, err := s.cur.readU8()
	if err != nil {
		return nil, err
	}
	t := TagType(id)
	if t == TypeEnd {
		return nil, errAtf(0, ErrInvalidStructure, "root is a lone end marker")
	}
	if t != TypeCompound {
		return nil, errAtf(0, ErrInvalidStructure, "root tag is %s, want compound", t)
	}
	name, err := s.cur.readString()
	if err != nil {
		return nil, err
	}
	tag, err := s.readCompound()
	if err != nil {
		return nil, err
	}
	return &NamedTag{Name: name, Tag: tag}, nil
}

// tick counts one read operation and yields on the global schedule.
func (s *decodeState) tick() {
	s.ops++
	if s.ops%opsPerYield == 0 {
		runtime.Gosched()
		s.progress()
	}
}

func (s *decodeState) progress() {
	if len(s.cur.data) == 0 {
		return
	}
	pct := pctDecode + (100-pctDecode)*float64(s.cur.off)/float64(len(s.cur.data))
	s.emit.emit("decoding", pct)
}

func (s *decodeState) enter() error {
	if s.depth+1 > s.maxDepth {
		return errAtf(s.cur.off, ErrMaxDepthExceeded, "nesting depth %d exceeds limit %d", s.depth+1, s.maxDepth)
	}
	s.depth++
	return nil
}

func (s *decodeState) leave() { s.depth-- }

// readNamedTag reads one type id byte and, unless it is the end marker, the
// tag's name and payload. ok=false means the enclosing compound terminated;
// the end marker is the grammar's only terminal signal and never appears as
// a document root.
func (s *decodeState) readNamedTag() (NamedTag, bool, error) {
	s.tick()
	idOff := s.cur.off
	id, err := s.cur.readU8()
	if err != nil {
		return NamedTag{}, false, err
	}
	t := TagType(id)
	if t == TypeEnd {
		return NamedTag{}, false, nil
	}
	if t > TypeLongArray {
		return NamedTag{}, false, errAtf(idOff, ErrUnknownTagType, "tag id %d", id)
	}
	name, err := s.cur.readString()
	if err != nil {
		return NamedTag{}, false, err
	}
	tag, err := s.readPayload(t)
	if err != nil {
		return NamedTag{}, false, err
	}
	return NamedTag{Name: name, Tag: tag}, true, nil
}

func (s *decodeState) readPayload(t TagType) (Tag, error) {
	switch t {
	case TypeByte:
		v, err := s.cur.readI8()
		return Byte(v), err
	case TypeShort:
		v, err := s.cur.readI16()
		return Short(v), err
	case TypeInt:
		v, err := s.cur.readI32()
		return Int(v), err
	case TypeLong:
		v, err := s.cur.readI64()
		return Long(v), err
	case TypeFloat:
		v, err := s.cur.readF32()
		return Float(v), err
	case TypeDouble:
		v, err := s.cur.readF64()
		return Double(v), err
	case TypeByteArray:
		return s.readByteArray()
	case TypeString:
		v, err := s.cur.readString()
		return String(v), err
	case TypeList:
		return s.readList()
	case TypeCompound:
		return s.readCompound()
	case TypeIntArray:
		return s.readIntArray()
	case TypeLongArray:
		return s.readLongArray()
	default:
		return nil, errAtf(s.cur.off, ErrUnknownTagType, "tag id %d", byte(t))
	}
}

func (s *decodeState) readCompound() (*Compound, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()
	c := NewCompound()
	for n := 0; ; n++ {
		if n > 0 && n%compoundTagsPerYield == 0 {
			runtime.Gosched()
		}
		if n == compoundWarnTags {
			s.log.Warn("compound holds an unusual number of tags", "tags", n, "offset", s.cur.off)
		}
		nt, ok, err := s.readNamedTag()
		if err != nil {
			return nil, err
		}
		if !ok {
			return c, nil
		}
		c.Put(nt.Name, nt.Tag)
	}
}

func (s *decodeState) readList() (List, error) {
	if err := s.enter(); err != nil {
		return List{}, err
	}
	defer s.leave()
	elemOff := s.cur.off
	id, err := s.cur.readU8()
	if err != nil {
		return List{}, err
	}
	elem := TagType(id)
	if elem > TypeLongArray {
		return List{}, errAtf(elemOff, ErrUnknownTagType, "list element tag id %d", id)
	}
	lenOff := s.cur.off
	n, err := s.cur.readI32()
	if err != nil {
		return List{}, err
	}
	if n < 0 {
		return List{}, errAtf(lenOff, ErrInvalidLength, "list length %d", n)
	}
	if n == 0 {
		return List{Elem: elem}, nil
	}
	if elem == TypeEnd {
		return List{}, errAtf(elemOff, ErrUnknownTagType, "non-empty list of end tags")
	}
	if int64(n)*int64(minPayloadSize(elem)) > int64(s.cur.remaining()) {
		return List{}, errAt(lenOff, ErrUnexpectedEOF)
	}
	if n > listWarnElems {
		s.log.Warn("list declares a very large length", "elements", n, "offset", lenOff)
	}
	items := make([]Tag, 0, n)
	for i := int32(0); i < n; i++ {
		if i > 0 && i%listElemsPerYield == 0 {
			runtime.Gosched()
			s.progress()
		}
		s.tick()
		tag, err := s.readPayload(elem)
		if err != nil {
			return List{}, err
		}
		items = append(items, tag)
	}
	return List{Elem: elem, Items: items}, nil
}

func (s *decodeState) readByteArray() (ByteArray, error) {
	lenOff := s.cur.off
	n, err := s.cur.readI32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errAtf(lenOff, ErrInvalidLength, "byte array length %d", n)
	}
	if n > maxByteArrayLen {
		return nil, errAtf(lenOff, ErrInvalidLength, "byte array length %d exceeds %d byte ceiling", n, maxByteArrayLen)
	}
	if int(n) > s.cur.remaining() {
		return nil, errAt(lenOff, ErrUnexpectedEOF)
	}
	if n > largeByteArrayBytes {
		runtime.Gosched()
	}
	b, err := s.cur.readN(int(n))
	if err != nil {
		return nil, errAt(lenOff, ErrUnexpectedEOF)
	}
	// Copy so the tree does not alias the caller's buffer.
	out := make([]byte, n)
	copy(out, b)
	return ByteArray(out), nil
}

func (s *decodeState) readIntArray() (IntArray, error) {
	lenOff := s.cur.off
	n, err := s.cur.readI32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errAtf(lenOff, ErrInvalidLength, "int array length %d", n)
	}
	if int64(n)*4 > int64(s.cur.remaining()) {
		return nil, errAt(lenOff, ErrUnexpectedEOF)
	}
	if n > arrayWarnElems {
		s.log.Warn("int array declares a very large length", "elements", n, "offset", lenOff)
	}
	vals := make([]int32, n)
	for i := range vals {
		if i > 0 && i%intArrayPerYield == 0 {
			runtime.Gosched()
			s.progress()
		}
		v, err := s.cur.readI32()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return IntArray(vals), nil
}

func (s *decodeState) readLongArray() (LongArray, error) {
	lenOff := s.cur.off
	n, err := s.cur.readI32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errAtf(lenOff, ErrInvalidLength, "long array length %d", n)
	}
	if int64(n)*8 > int64(s.cur.remaining()) {
		return nil, errAt(lenOff, ErrUnexpectedEOF)
	}
	if n > arrayWarnElems {
		s.log.Warn("long array declares a very large length", "elements", n, "offset", lenOff)
	}
	vals := make([]int64, n)
	for i := range vals {
		if i > 0 && i%longArrayPerYield == 0 {
			runtime.Gosched()
			s.progress()
		}
		v, err := s.cur.readI64()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return LongArray(vals), nil
}

// progressEmitter clamps percentages so one decode never reports a value
// lower than an earlier one, regardless of phase transitions.
type progressEmitter struct {
	fn   ProgressFunc
	last float64
}

func (p *progressEmitter) emit(status string, pct float64) {
	if p.fn == nil {
		return
	}
	if pct < p.last {
		pct = p.last
	}
	if pct > 100 {
		pct = 100
	}
	p.last = pct
	p.fn(status, pct)
}
