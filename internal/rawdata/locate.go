package rawdata

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/robert-malhotra/go-tdms/internal/dtype"
	"github.com/robert-malhotra/go-tdms/internal/leadin"
	"github.com/robert-malhotra/go-tdms/internal/metadata"
)

// Entry is an object carrying data in a segment, with its layout resolved.
type Entry struct {
	Path  string
	Index metadata.RawIndex
}

// Span locates one channel's values in one segment.
type Span struct {
	Segment int
	Type    dtype.DataType
	Order   binary.ByteOrder

	// Offset is the file position of the first value of the first chunk.
	// For strings it is the start of the offset table.
	Offset int64

	// Count is the number of values per chunk.
	Count uint64

	// Chunks is the number of complete chunks.
	Chunks uint64

	// ChunkStride is the distance between chunk starts.
	ChunkStride int64

	// Stride is the distance between consecutive values within a chunk.
	Stride int64

	// ByteLength is the number of bytes the channel occupies per chunk.
	ByteLength int64

	Interleaved bool

	// Digital is set for DAQmx digital line channels; Bit selects the line.
	Digital bool
	Bit     uint32

	// Unavailable marks a span whose segment layout could not be trusted.
	// Err holds the reason.
	Unavailable bool
	Err         error
}

// Len returns the number of values the span holds.
func (s Span) Len() uint64 {
	if s.Unavailable {
		return 0
	}
	return s.Count * s.Chunks
}

// LayoutMismatchError is returned when a segment's raw data does not agree
// with its object list.
type LayoutMismatchError struct {
	Segment int
	Offset  int64
	Reason  string
}

func (e *LayoutMismatchError) Error() string {
	return fmt.Sprintf("segment %d at offset %d: raw data layout mismatch: %s", e.Segment, e.Offset, e.Reason)
}

// Unavailable returns one unavailable span per entry carrying err.
func Unavailable(seg leadin.Segment, entries []Entry, err error) []Span {
	spans := make([]Span, len(entries))
	for i, e := range entries {
		spans[i] = Span{
			Segment:     seg.Index,
			Type:        ValueType(e.Index),
			Order:       seg.LeadIn.ByteOrder(),
			Count:       e.Index.NumValues,
			Unavailable: true,
			Err:         err,
		}
	}
	return spans
}

// Locate computes one span per entry. Entries must carry explicit or DAQmx
// layouts and appear in object list order.
//
// When the raw block does not divide into whole chunks of a segment with a
// declared length, every span is returned unavailable together with a
// [LayoutMismatchError]. Segments of unknown length and truncated segments
// keep their complete chunks.
func Locate(seg leadin.Segment, entries []Entry) ([]Span, error) {
	li, lay := seg.LeadIn, seg.Layout
	if len(entries) == 0 {
		if li.Flags.Has(leadin.FlagRawData) && lay.RawDataLength() > 0 && !lay.UnknownLength && !lay.Truncated {
			return nil, mismatch(seg, "%d bytes of raw data without data-carrying objects", lay.RawDataLength())
		}
		return nil, nil
	}

	var (
		spans     []Span
		chunkSize int64
		err       error
	)
	switch {
	case li.Flags.Has(leadin.FlagDAQmxRawData):
		spans, chunkSize, err = locateDAQmx(seg, entries)
	case li.Flags.Has(leadin.FlagInterleavedData):
		spans, chunkSize, err = locateInterleaved(seg, entries)
	default:
		spans, chunkSize, err = locateContiguous(seg, entries)
	}
	if err != nil {
		return Unavailable(seg, entries, err), err
	}

	raw := lay.RawDataLength()
	if !li.Flags.Has(leadin.FlagRawData) {
		raw = 0
	}
	var chunks uint64
	switch {
	case chunkSize == 0:
		if raw > 0 && !lay.UnknownLength && !lay.Truncated {
			err := mismatch(seg, "%d bytes of raw data for zero-length chunks", raw)
			return Unavailable(seg, entries, err), err
		}
	case chunkSize > raw && !lay.UnknownLength && !lay.Truncated:
		err := mismatch(seg, "chunk size %d exceeds raw data length %d", chunkSize, raw)
		return Unavailable(seg, entries, err), err
	default:
		chunks = uint64(raw / chunkSize)
		if rem := raw % chunkSize; rem != 0 && !lay.UnknownLength && !lay.Truncated {
			err := mismatch(seg, "raw data length %d is not a multiple of chunk size %d", raw, chunkSize)
			return Unavailable(seg, entries, err), err
		}
	}

	for i := range spans {
		spans[i].Chunks = chunks
		spans[i].ChunkStride = chunkSize
	}
	return spans, nil
}

func locateContiguous(seg leadin.Segment, entries []Entry) ([]Span, int64, error) {
	spans := make([]Span, len(entries))
	pos := seg.Layout.RawDataStart
	var chunk int64
	for i, e := range entries {
		ix := e.Index
		if ix.Kind != metadata.Explicit {
			return nil, 0, mismatch(seg, "object %q has a %s index in a non-DAQmx segment", e.Path, ix.Kind)
		}
		s := Span{
			Segment: seg.Index,
			Type:    ix.DataType,
			Order:   seg.LeadIn.ByteOrder(),
			Offset:  pos + chunk,
			Count:   ix.NumValues,
		}
		if ix.DataType.IsString() {
			if ix.NumValues > ix.TotalSize/4 || ix.TotalSize > math.MaxInt64 {
				return nil, 0, mismatch(seg, "string object %q declares %d bytes for %d values", e.Path, ix.TotalSize, ix.NumValues)
			}
			s.ByteLength = int64(ix.TotalSize)
		} else {
			size := ix.DataType.Size()
			n, ok := byteLength(uint64(size), ix.NumValues)
			if !ok {
				return nil, 0, mismatch(seg, "object %q declares %d values, too many for any segment", e.Path, ix.NumValues)
			}
			s.Stride = int64(size)
			s.ByteLength = n
		}
		var ok bool
		if chunk, ok = addLength(chunk, s.ByteLength); !ok {
			return nil, 0, mismatch(seg, "chunk size overflows at object %q", e.Path)
		}
		spans[i] = s
	}
	return spans, chunk, nil
}

func locateInterleaved(seg leadin.Segment, entries []Entry) ([]Span, int64, error) {
	spans := make([]Span, len(entries))
	count := entries[0].Index.NumValues
	var row int64
	for i, e := range entries {
		ix := e.Index
		if ix.Kind != metadata.Explicit {
			return nil, 0, mismatch(seg, "object %q has a %s index in a non-DAQmx segment", e.Path, ix.Kind)
		}
		if ix.DataType.IsString() {
			return nil, 0, mismatch(seg, "string object %q cannot be interleaved", e.Path)
		}
		if ix.NumValues != count {
			return nil, 0, mismatch(seg, "interleaved object %q has %d values, want %d", e.Path, ix.NumValues, count)
		}
		size := int64(ix.DataType.Size())
		n, ok := byteLength(uint64(size), count)
		if !ok {
			return nil, 0, mismatch(seg, "object %q declares %d values, too many for any segment", e.Path, count)
		}
		spans[i] = Span{
			Segment:     seg.Index,
			Type:        ix.DataType,
			Order:       seg.LeadIn.ByteOrder(),
			Offset:      seg.Layout.RawDataStart + row,
			Count:       count,
			ByteLength:  n,
			Interleaved: true,
		}
		row += size
	}
	for i := range spans {
		spans[i].Stride = row
	}
	chunk, ok := byteLength(uint64(row), count)
	if !ok {
		return nil, 0, mismatch(seg, "interleaved chunk of %d rows of %d bytes overflows", count, row)
	}
	return spans, chunk, nil
}

type buffer struct {
	width  uint32
	count  uint64
	offset int64 // within the chunk
}

func locateDAQmx(seg leadin.Segment, entries []Entry) ([]Span, int64, error) {
	// Raw buffer dimensions are shared by every channel that declares them.
	var buffers []buffer
	for _, e := range entries {
		d := e.Index.DAQmx
		if e.Index.Kind != metadata.DAQmx || d == nil {
			return nil, 0, mismatch(seg, "object %q has a %s index in a DAQmx segment", e.Path, e.Index.Kind)
		}
		for i, w := range d.RawWidths {
			if i < len(buffers) {
				if buffers[i].width != w || buffers[i].count != e.Index.NumValues {
					return nil, 0, mismatch(seg, "object %q disagrees on raw buffer %d dimensions", e.Path, i)
				}
				continue
			}
			buffers = append(buffers, buffer{width: w, count: e.Index.NumValues})
		}
	}
	var chunk int64
	for i := range buffers {
		buffers[i].offset = chunk
		n, ok := byteLength(uint64(buffers[i].width), buffers[i].count)
		if ok {
			chunk, ok = addLength(chunk, n)
		}
		if !ok {
			return nil, 0, mismatch(seg, "raw buffer %d of %d values overflows", i, buffers[i].count)
		}
	}

	spans := make([]Span, len(entries))
	for i, e := range entries {
		d := e.Index.DAQmx
		if len(d.Scalers) == 0 {
			return nil, 0, mismatch(seg, "DAQmx object %q has no scalers", e.Path)
		}
		sc := d.Scalers[0]
		t, ok := metadata.ScalerDataType(sc.DataType)
		if !ok {
			return nil, 0, &dtype.UnsupportedTypeError{Code: dtype.DataType(sc.DataType), Offset: -1}
		}
		if int(sc.BufferIndex) >= len(buffers) {
			return nil, 0, mismatch(seg, "object %q reads raw buffer %d of %d", e.Path, sc.BufferIndex, len(buffers))
		}
		buf := buffers[sc.BufferIndex]
		byteOffset, bit := int64(sc.ByteOffset), uint32(0)
		if d.Digital {
			// Lines are single bits of a byte within the row.
			t = dtype.Uint8
			byteOffset, bit = int64(sc.BitOffset/8), sc.BitOffset%8
		}
		size := int64(t.Size())
		if byteOffset+size > int64(buf.width) {
			return nil, 0, mismatch(seg, "object %q reads past raw buffer width %d", e.Path, buf.width)
		}
		spans[i] = Span{
			Segment:    seg.Index,
			Type:       t,
			Order:      seg.LeadIn.ByteOrder(),
			Offset:     seg.Layout.RawDataStart + buf.offset + byteOffset,
			Count:      e.Index.NumValues,
			Stride:     int64(buf.width),
			ByteLength: int64(buf.width) * int64(buf.count),
			Digital:    d.Digital,
			Bit:        bit,
		}
	}
	return spans, chunk, nil
}

// ValueType returns the type of the values an index describes. DAQmx
// channels yield their first scaler's sample type.
func ValueType(ix metadata.RawIndex) dtype.DataType {
	if ix.Kind == metadata.DAQmx && ix.DAQmx != nil && len(ix.DAQmx.Scalers) > 0 {
		if ix.DAQmx.Digital {
			return dtype.Uint8
		}
		if t, ok := metadata.ScalerDataType(ix.DAQmx.Scalers[0].DataType); ok {
			return t
		}
	}
	return ix.DataType
}

// byteLength returns size*n, reporting false when it does not fit an int64.
func byteLength(size, n uint64) (int64, bool) {
	hi, lo := bits.Mul64(size, n)
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

func addLength(a, b int64) (int64, bool) {
	if b > math.MaxInt64-a {
		return 0, false
	}
	return a + b, true
}

func mismatch(seg leadin.Segment, format string, args ...any) error {
	return &LayoutMismatchError{
		Segment: seg.Index,
		Offset:  seg.Layout.Start,
		Reason:  fmt.Sprintf(format, args...),
	}
}
