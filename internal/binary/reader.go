// Package binary provides bounds-checked binary I/O for TDMS file parsing.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrNegativeLength is returned when a read or seek is given a negative size.
var ErrNegativeLength = errors.New("negative length")

// TruncatedError is returned when a read would run past the end of the
// readable region, either the source itself or a limit set with [Reader.Limit].
type TruncatedError struct {
	Offset int64 // position at which the read started
	Want   int64 // bytes requested
	Have   int64 // bytes available before the end of the region
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated read at offset %d: want %d bytes, %d available", e.Offset, e.Want, e.Have)
}

// Reader is a cursor over an io.ReaderAt. Every read is checked against an
// exclusive end offset so a short source is reported as a [TruncatedError]
// instead of a silent zero fill.
type Reader struct {
	r     io.ReaderAt
	order binary.ByteOrder
	end   int64
	pos   int64
}

// Config holds reader configuration.
type Config struct {
	ByteOrder binary.ByteOrder
	Size      int64 // total readable bytes of the source
}

// DefaultConfig returns a little-endian configuration for a source of size bytes.
// Segment lead-ins carry their own byte order, applied later with WithByteOrder.
func DefaultConfig(size int64) Config {
	return Config{
		ByteOrder: binary.LittleEndian,
		Size:      size,
	}
}

// NewReader creates a binary reader with the given configuration.
func NewReader(r io.ReaderAt, cfg Config) *Reader {
	order := cfg.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}
	return &Reader{
		r:     r,
		order: order,
		end:   cfg.Size,
	}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{
		r:     r.r,
		order: r.order,
		end:   r.end,
		pos:   offset,
	}
}

// WithByteOrder returns a new reader at the same position using order.
func (r *Reader) WithByteOrder(order binary.ByteOrder) *Reader {
	return &Reader{
		r:     r.r,
		order: order,
		end:   r.end,
		pos:   r.pos,
	}
}

// Limit returns a new reader at the same position whose reads may not pass end.
// A limit beyond the current end is clamped to it.
func (r *Reader) Limit(end int64) *Reader {
	if end > r.end {
		end = r.end
	}
	return &Reader{
		r:     r.r,
		order: r.order,
		end:   end,
		pos:   r.pos,
	}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// End returns the exclusive end offset of the readable region.
func (r *Reader) End() int64 {
	return r.end
}

// Remaining returns the number of bytes left before the end of the region.
func (r *Reader) Remaining() int64 {
	if r.pos >= r.end {
		return 0
	}
	return r.end - r.pos
}

// Seek moves the cursor to an absolute offset inside the readable region.
func (r *Reader) Seek(offset int64) error {
	if offset < 0 {
		return ErrNegativeLength
	}
	if offset > r.end {
		return &TruncatedError{Offset: r.pos, Want: offset - r.pos, Have: r.Remaining()}
	}
	r.pos = offset
	return nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) error {
	if n < 0 {
		return ErrNegativeLength
	}
	return r.Seek(r.pos + n)
}

func (r *Reader) check(n int64) error {
	if n < 0 {
		return ErrNegativeLength
	}
	if n > r.Remaining() {
		return &TruncatedError{Offset: r.pos, Want: n, Have: r.Remaining()}
	}
	return nil
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf, err := r.Peek(n)
	if err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// Peek reads n bytes without advancing the position.
func (r *Reader) Peek(n int) ([]byte, error) {
	if err := r.check(int64(n)); err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	got, err := r.r.ReadAt(buf, r.pos)
	if got < n {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, &TruncatedError{Offset: r.pos, Want: int64(n), Have: int64(got)}
		}
		return nil, err
	}
	return buf, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(buf), nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(buf), nil
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(buf), nil
}

// ReadInt8 reads a signed 8-bit integer.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a signed 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads an IEEE 754 single precision value.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE 754 double precision value.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadString reads a uint32 length prefix followed by that many bytes.
// The length is checked against the region before anything is allocated.
func (r *Reader) ReadString() (string, error) {
	start := r.pos
	n, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	if int64(n) > r.Remaining() {
		have := r.Remaining()
		r.pos = start
		return "", &TruncatedError{Offset: start + 4, Want: int64(n), Have: have}
	}
	buf, err := r.ReadBytes(int(n))
	if err != nil {
		r.pos = start
		return "", err
	}
	return string(buf), nil
}

// ByteOrder returns the configured byte order.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}
