// Package tdmstest synthesizes TDMS files for tests.
//
// A [Builder] collects segments and renders them as a data file and the
// matching index file:
//
//	b := tdmstest.New()
//	b.Add(tdmstest.Segment{
//		Flags: leadin.FlagMetaData | leadin.FlagNewObjList | leadin.FlagRawData,
//		Objects: []tdmstest.Object{
//			{Path: "/"},
//			{Path: "/'g'"},
//			{Path: "/'g'/'c'", Index: tdmstest.Explicit(dtype.Int32, 3)},
//		},
//		Raw: tdmstest.Values(binary.LittleEndian, []int32{1, 2, 3}),
//	})
//	data := b.Bytes()
package tdmstest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	binpkg "github.com/robert-malhotra/go-tdms/internal/binary"
	"github.com/robert-malhotra/go-tdms/internal/dtype"
	"github.com/robert-malhotra/go-tdms/internal/leadin"
)

// Raw data index markers.
const (
	noData          = 0xFFFFFFFF
	matchesPrevious = 0x00000000
	formatChanging  = 0x69120000
	digitalLine     = 0x69130000
)

type indexKind int

const (
	kindNoData indexKind = iota
	kindMatches
	kindExplicit
	kindDAQmx
	kindDigital
)

// Index is the raw data index written for an object.
type Index struct {
	kind    indexKind
	t       dtype.DataType
	n       uint64
	total   uint64
	scalers []Scaler
	widths  []uint32

	// Pad extends an explicit index with unused trailing bytes.
	Pad int
}

// NoData marks an object without raw data in the segment.
func NoData() Index { return Index{kind: kindNoData} }

// MatchesPrevious reuses the object's previous layout.
func MatchesPrevious() Index { return Index{kind: kindMatches} }

// Explicit declares n values of a fixed-width type.
func Explicit(t dtype.DataType, n uint64) Index {
	return Index{kind: kindExplicit, t: t, n: n}
}

// StringIndex declares n strings occupying total bytes, offset table included.
func StringIndex(n, total uint64) Index {
	return Index{kind: kindExplicit, t: dtype.String, n: n, total: total}
}

// Scaler is a DAQmx scaler entry.
type Scaler struct {
	DataType     uint32
	BufferIndex  uint32
	ByteOffset   uint32
	BitOffset    uint32
	SampleFormat uint32
	ScaleID      uint32
}

// DAQmx declares n values read through format changing scalers.
func DAQmx(n uint64, scalers []Scaler, widths []uint32) Index {
	return Index{kind: kindDAQmx, t: dtype.DAQmxRawData, n: n, scalers: scalers, widths: widths}
}

// DigitalLine declares n values read through digital line scalers.
func DigitalLine(n uint64, scalers []Scaler, widths []uint32) Index {
	return Index{kind: kindDigital, t: dtype.DAQmxRawData, n: n, scalers: scalers, widths: widths}
}

// Prop is an object property.
type Prop struct {
	Name  string
	Type  dtype.DataType
	Value any
}

// Object is one metadata record. The zero Index is NoData.
type Object struct {
	Path  string
	Index Index
	Props []Prop
}

// Segment describes one segment to render.
type Segment struct {
	Flags   leadin.Flags
	Version uint32 // 4713 when zero
	Objects []Object
	Raw     []byte

	// Metadata replaces the encoded objects when non-nil.
	Metadata []byte

	// UnknownLength writes the unfinished segment marker.
	UnknownLength bool

	// NextSegmentOffset overrides the computed segment length when non-zero.
	NextSegmentOffset uint64
}

func (s Segment) order() binary.ByteOrder {
	if s.Flags.Has(leadin.FlagBigEndian) {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Builder accumulates segments.
type Builder struct {
	segs []Segment
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Add appends a segment.
func (b *Builder) Add(s Segment) *Builder {
	b.segs = append(b.segs, s)
	return b
}

// Bytes renders the data file.
func (b *Builder) Bytes() []byte {
	return b.render(leadin.TagData, true)
}

// IndexBytes renders the index file.
func (b *Builder) IndexBytes() []byte {
	return b.render(leadin.TagIndex, false)
}

func (b *Builder) render(tag [4]byte, withRaw bool) []byte {
	var out binpkg.Buffer
	var pos int64
	for _, s := range b.segs {
		meta := s.Metadata
		if meta == nil && s.Flags.Has(leadin.FlagMetaData) {
			meta = EncodeMetadata(s.order(), s.Objects)
		}

		next := uint64(len(meta) + len(s.Raw))
		switch {
		case s.UnknownLength:
			next = ^uint64(0)
		case s.NextSegmentOffset != 0:
			next = s.NextSegmentOffset
		}
		version := s.Version
		if version == 0 {
			version = leadin.Version4713
		}

		w := binpkg.NewWriter(&out, s.order()).At(pos)
		must(w.WriteBytes(tag[:]))
		must(w.WithByteOrder(binary.LittleEndian).WriteUint32(uint32(s.Flags)))
		w = w.At(pos + 8)
		must(w.WriteUint32(version))
		must(w.WriteUint64(next))
		must(w.WriteUint64(uint64(len(meta))))
		must(w.WriteBytes(meta))
		if withRaw {
			must(w.WriteBytes(s.Raw))
		}
		pos = w.Pos()
	}
	return out.Bytes()
}

// EncodeMetadata renders a metadata block.
func EncodeMetadata(order binary.ByteOrder, objects []Object) []byte {
	var out binpkg.Buffer
	w := binpkg.NewWriter(&out, order)
	must(w.WriteUint32(uint32(len(objects))))
	for _, obj := range objects {
		must(w.WriteString(obj.Path))
		writeIndex(w, obj.Index)
		must(w.WriteUint32(uint32(len(obj.Props))))
		for _, p := range obj.Props {
			must(w.WriteString(p.Name))
			must(w.WriteUint32(uint32(p.Type)))
			writeValue(w, p.Type, p.Value)
		}
	}
	return out.Bytes()
}

func writeIndex(w *binpkg.Writer, ix Index) {
	switch ix.kind {
	case kindNoData:
		must(w.WriteUint32(noData))
	case kindMatches:
		must(w.WriteUint32(matchesPrevious))
	case kindExplicit:
		length := 20
		if ix.t.IsString() {
			length = 28
		}
		must(w.WriteUint32(uint32(length + ix.Pad)))
		must(w.WriteUint32(uint32(ix.t)))
		must(w.WriteUint32(1))
		must(w.WriteUint64(ix.n))
		if ix.t.IsString() {
			must(w.WriteUint64(ix.total))
		}
		must(w.WriteZeros(ix.Pad))
	case kindDAQmx, kindDigital:
		digital := ix.kind == kindDigital
		marker := uint32(formatChanging)
		if digital {
			marker = digitalLine
		}
		must(w.WriteUint32(marker))
		must(w.WriteUint32(uint32(dtype.DAQmxRawData)))
		must(w.WriteUint32(1))
		must(w.WriteUint64(ix.n))
		must(w.WriteUint32(uint32(len(ix.scalers))))
		for _, s := range ix.scalers {
			must(w.WriteUint32(s.DataType))
			must(w.WriteUint32(s.BufferIndex))
			if digital {
				must(w.WriteUint32(s.BitOffset))
				must(w.WriteUint8(uint8(s.SampleFormat)))
			} else {
				must(w.WriteUint32(s.ByteOffset))
				must(w.WriteUint32(s.SampleFormat))
			}
			must(w.WriteUint32(s.ScaleID))
		}
		must(w.WriteUint32(uint32(len(ix.widths))))
		for _, width := range ix.widths {
			must(w.WriteUint32(width))
		}
	}
}

func writeValue(w *binpkg.Writer, t dtype.DataType, v any) {
	switch t {
	case dtype.String:
		must(w.WriteString(v.(string)))
	case dtype.Boolean:
		var b uint8
		if v.(bool) {
			b = 1
		}
		must(w.WriteUint8(b))
	case dtype.TimeStamp:
		var ts dtype.Timestamp
		switch tv := v.(type) {
		case dtype.Timestamp:
			ts = tv
		case time.Time:
			ts = dtype.TimestampOf(tv)
		default:
			panic(fmt.Sprintf("tdmstest: %T is not a timestamp", v))
		}
		buf := make([]byte, 16)
		dtype.EncodeTimestamp(w.ByteOrder(), buf, ts)
		must(w.WriteBytes(buf))
	default:
		var buf bytes.Buffer
		must(binary.Write(&buf, w.ByteOrder(), v))
		must(w.WriteBytes(buf.Bytes()))
	}
}

// Values encodes fixed-width values, such as a []int32, in order.
func Values(order binary.ByteOrder, vals any) []byte {
	var buf bytes.Buffer
	must(binary.Write(&buf, order, vals))
	return buf.Bytes()
}

// Timestamps encodes timestamps in the layout used by order.
func Timestamps(order binary.ByteOrder, vals []dtype.Timestamp) []byte {
	out := make([]byte, 16*len(vals))
	for i, ts := range vals {
		dtype.EncodeTimestamp(order, out[i*16:], ts)
	}
	return out
}

// Strings encodes a string channel's raw data: one uint32 end offset per value
// followed by the concatenated bytes.
func Strings(order binary.ByteOrder, vals []string) []byte {
	out := make([]byte, 4*len(vals))
	var end uint32
	for i, s := range vals {
		end += uint32(len(s))
		order.PutUint32(out[i*4:], end)
	}
	for _, s := range vals {
		out = append(out, s...)
	}
	return out
}

// Concat joins raw data blocks.
func Concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("tdmstest: %v", err))
	}
}
