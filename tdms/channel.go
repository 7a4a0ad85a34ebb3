package tdms

import (
	"fmt"
	"reflect"
	"time"

	"github.com/robert-malhotra/go-tdms/internal/dtype"
	"github.com/robert-malhotra/go-tdms/internal/rawdata"
)

// Span locates one channel's values inside one segment.
type Span = rawdata.Span

// Channel is a typed sequence of values accumulated across segments.
type Channel struct {
	file     *File
	group    *Group
	name     string
	path     string
	id       uint64
	props    *Properties
	dataType DataType
	spans    []rawdata.Span
	length   uint64
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.name
}

// Path returns the channel's object path, e.g. "/'Group'/'Voltage'".
func (c *Channel) Path() string {
	return c.path
}

// ID returns a stable 64-bit hash of the channel path.
func (c *Channel) ID() uint64 {
	return c.id
}

// Group returns the channel's group.
func (c *Channel) Group() *Group {
	return c.group
}

// Properties returns the channel's properties.
func (c *Channel) Properties() *Properties {
	return c.props
}

// DataType returns the type of the channel's values as last declared.
// A channel that never declared a layout reports Void.
func (c *Channel) DataType() DataType {
	return c.dataType
}

// Len returns the number of values in all available spans.
func (c *Channel) Len() uint64 {
	return c.length
}

// Spans returns the channel's spans in file order. Spans of segments whose
// layout could not be trusted are included with Unavailable set.
func (c *Channel) Spans() []Span {
	return append([]Span(nil), c.spans...)
}

func (c *Channel) addSpan(s rawdata.Span) {
	c.spans = append(c.spans, s)
	c.length += s.Len()
}

type piece struct {
	span     rawdata.Span
	start, n uint64
}

// Read reads every value of the channel into dest, a pointer to a slice.
//
// Fixed-width values may be read into a slice of their natural Go type, of
// any numeric type they convert to, or of any. Timestamps may also be read
// into []time.Time. String channels need *[]string or *[]any.
func (c *Channel) Read(dest any) error {
	for _, s := range c.spans {
		if s.Unavailable {
			return &DataUnavailableError{Path: c.path, Segment: s.Segment, Err: s.Err}
		}
	}
	return c.ReadRange(0, c.length, dest)
}

// ReadRange reads n values starting at value index start.
// A range reaching past a span marked unavailable fails with a
// *DataUnavailableError.
func (c *Channel) ReadRange(start, n uint64, dest any) error {
	if c.file.closed.Load() {
		return ErrClosed
	}
	if start > c.length || n > c.length-start {
		return fmt.Errorf("channel %s: range [%d, %d) outside %d values", c.path, start, start+n, c.length)
	}

	var pieces []piece
	var pos uint64
	for _, s := range c.spans {
		if n == 0 {
			break
		}
		if s.Unavailable {
			return &DataUnavailableError{Path: c.path, Segment: s.Segment, Err: s.Err}
		}
		l := s.Len()
		if start >= pos+l {
			pos += l
			continue
		}
		off := start - pos
		take := min(n, l-off)
		pieces = append(pieces, piece{span: s, start: off, n: take})
		start += take
		n -= take
		pos += l
	}
	return c.readPieces(pieces, dest)
}

// ReadSegment reads the values the channel holds in segment i.
func (c *Channel) ReadSegment(i int, dest any) error {
	if c.file.closed.Load() {
		return ErrClosed
	}
	for _, s := range c.spans {
		if s.Segment != i {
			continue
		}
		if s.Unavailable {
			return &DataUnavailableError{Path: c.path, Segment: s.Segment, Err: s.Err}
		}
		return c.readPieces([]piece{{span: s, n: s.Len()}}, dest)
	}
	return fmt.Errorf("channel %s segment %d: %w", c.path, i, ErrNotFound)
}

func (c *Channel) readPieces(pieces []piece, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to a slice, got %T", dest)
	}
	sliceType := dv.Elem().Type()

	if c.dataType.IsString() {
		return c.readStrings(pieces, dv.Elem())
	}

	var total uint64
	for _, p := range pieces {
		total += p.n
	}
	out := reflect.MakeSlice(sliceType, 0, int(total))
	for _, p := range pieces {
		packed, err := c.file.gather(c, p.span, p.start, p.n)
		if err != nil {
			return fmt.Errorf("channel %s segment %d: %w", c.path, p.span.Segment, err)
		}
		tmp := reflect.New(sliceType)
		if err := dtype.Convert(p.span.Type, p.span.Order, packed, int(p.n), tmp.Interface()); err != nil {
			return fmt.Errorf("channel %s: %w", c.path, err)
		}
		out = reflect.AppendSlice(out, tmp.Elem())
	}
	dv.Elem().Set(out)
	return nil
}

func (c *Channel) readStrings(pieces []piece, dest reflect.Value) error {
	var vals []string
	for _, p := range pieces {
		s, err := rawdata.Strings(c.file.src, p.span, p.start, p.n)
		if err != nil {
			return fmt.Errorf("channel %s segment %d: %w", c.path, p.span.Segment, err)
		}
		vals = append(vals, s...)
	}

	switch out := dest.Addr().Interface().(type) {
	case *[]string:
		if vals == nil {
			vals = []string{}
		}
		*out = vals
	case *[]any:
		*out = make([]any, len(vals))
		for i, v := range vals {
			(*out)[i] = v
		}
	default:
		return fmt.Errorf("cannot store String values in %s", dest.Type())
	}
	return nil
}

// Values reads every value with its natural Go type.
func (c *Channel) Values() ([]any, error) {
	var out []any
	err := c.Read(&out)
	return out, err
}

// ReadFloat64 reads every value converted to float64.
func (c *Channel) ReadFloat64() ([]float64, error) {
	var out []float64
	err := c.Read(&out)
	return out, err
}

// ReadFloat32 reads every value converted to float32.
func (c *Channel) ReadFloat32() ([]float32, error) {
	var out []float32
	err := c.Read(&out)
	return out, err
}

// ReadInt32 reads every value converted to int32.
func (c *Channel) ReadInt32() ([]int32, error) {
	var out []int32
	err := c.Read(&out)
	return out, err
}

// ReadInt64 reads every value converted to int64.
func (c *Channel) ReadInt64() ([]int64, error) {
	var out []int64
	err := c.Read(&out)
	return out, err
}

// ReadString reads a string channel.
func (c *Channel) ReadString() ([]string, error) {
	var out []string
	err := c.Read(&out)
	return out, err
}

// ReadBool reads a boolean channel.
func (c *Channel) ReadBool() ([]bool, error) {
	var out []bool
	err := c.Read(&out)
	return out, err
}

// ReadTimestamp reads a timestamp channel.
func (c *Channel) ReadTimestamp() ([]Timestamp, error) {
	var out []Timestamp
	err := c.Read(&out)
	return out, err
}

// ReadTime reads a timestamp channel as UTC times.
func (c *Channel) ReadTime() ([]time.Time, error) {
	var out []time.Time
	err := c.Read(&out)
	return out, err
}
