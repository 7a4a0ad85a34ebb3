package metadata

import (
	"errors"
	"fmt"

	binpkg "github.com/robert-malhotra/go-tdms/internal/binary"
	"github.com/robert-malhotra/go-tdms/internal/dtype"
	"github.com/robert-malhotra/go-tdms/internal/leadin"
)

// Minimum explicit index lengths, including the length word.
const (
	explicitIndexLen = 20
	stringIndexLen   = 28
)

// Decode reads a metadata block. r must be positioned at the start of the
// block, limited to its end and set to the segment's byte order; c holds the
// raw index sentinels of the segment's version.
//
// Objects decoded before an error are returned along with it.
func Decode(r *binpkg.Reader, c leadin.Constants) ([]Object, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, truncated(err, "")
	}

	// Every record needs at least a path length, an index header and a
	// property count.
	capHint := min(int64(count), r.Remaining()/12)
	objects := make([]Object, 0, capHint)
	for i := uint32(0); i < count; i++ {
		obj, err := decodeObject(r, c)
		if err != nil {
			return objects, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func decodeObject(r *binpkg.Reader, c leadin.Constants) (Object, error) {
	obj := Object{Offset: r.Pos()}

	path, err := r.ReadString()
	if err != nil {
		return obj, truncated(err, "")
	}
	obj.Path = path

	obj.Index, err = decodeRawIndex(r, c)
	if err != nil {
		return obj, wrapObject(err, path)
	}

	obj.Properties, err = decodeProperties(r)
	if err != nil {
		return obj, wrapObject(err, path)
	}
	return obj, nil
}

func decodeRawIndex(r *binpkg.Reader, c leadin.Constants) (RawIndex, error) {
	start := r.Pos()
	header, err := r.ReadUint32()
	if err != nil {
		return RawIndex{}, err
	}

	switch header {
	case c.NoRawData:
		return RawIndex{Kind: NoData}, nil
	case c.MatchesPrevious:
		return RawIndex{Kind: MatchesPrevious}, nil
	case c.DAQmxFormatChanging:
		return decodeDAQmx(r, false)
	case c.DAQmxDigitalLine:
		return decodeDAQmx(r, true)
	}

	if header < explicitIndexLen {
		return RawIndex{}, &leadin.CorruptSegmentError{
			Offset: start,
			Reason: fmt.Sprintf("raw data index length %d is too short", header),
		}
	}

	ri := RawIndex{Kind: Explicit}
	if ri.DataType, ri.Dimension, ri.NumValues, err = readLayoutHeader(r, start); err != nil {
		return RawIndex{}, err
	}
	if ri.DataType.IsString() {
		if header < stringIndexLen {
			return RawIndex{}, &leadin.CorruptSegmentError{
				Offset: start,
				Reason: fmt.Sprintf("string raw data index length %d is too short", header),
			}
		}
		if ri.TotalSize, err = r.ReadUint64(); err != nil {
			return RawIndex{}, err
		}
	} else if !ri.DataType.Decodable() {
		return RawIndex{}, &dtype.UnsupportedTypeError{Code: ri.DataType, Offset: start + 4}
	}

	if err := r.Seek(start + int64(header)); err != nil {
		return RawIndex{}, err
	}
	return ri, nil
}

func readLayoutHeader(r *binpkg.Reader, start int64) (dtype.DataType, uint32, uint64, error) {
	code, err := r.ReadUint32()
	if err != nil {
		return 0, 0, 0, err
	}
	dim, err := r.ReadUint32()
	if err != nil {
		return 0, 0, 0, err
	}
	if dim != 1 {
		return 0, 0, 0, &leadin.CorruptSegmentError{
			Offset: start,
			Reason: fmt.Sprintf("raw data dimension %d, want 1", dim),
		}
	}
	n, err := r.ReadUint64()
	if err != nil {
		return 0, 0, 0, err
	}
	return dtype.DataType(code), dim, n, nil
}

func decodeDAQmx(r *binpkg.Reader, digital bool) (RawIndex, error) {
	start := r.Pos() - 4
	ri := RawIndex{Kind: DAQmx, DAQmx: &DAQmxIndex{Digital: digital}}

	var err error
	if ri.DataType, ri.Dimension, ri.NumValues, err = readLayoutHeader(r, start); err != nil {
		return RawIndex{}, err
	}

	nScalers, err := r.ReadUint32()
	if err != nil {
		return RawIndex{}, err
	}
	// Format changing scalers take 20 bytes, digital line scalers 17.
	if int64(nScalers)*17 > r.Remaining() {
		return RawIndex{}, &binpkg.TruncatedError{Offset: r.Pos(), Want: int64(nScalers) * 17, Have: r.Remaining()}
	}
	ri.DAQmx.Scalers = make([]Scaler, nScalers)
	for i := range ri.DAQmx.Scalers {
		if ri.DAQmx.Scalers[i], err = decodeScaler(r, digital); err != nil {
			return RawIndex{}, err
		}
	}

	nWidths, err := r.ReadUint32()
	if err != nil {
		return RawIndex{}, err
	}
	if int64(nWidths)*4 > r.Remaining() {
		return RawIndex{}, &binpkg.TruncatedError{Offset: r.Pos(), Want: int64(nWidths) * 4, Have: r.Remaining()}
	}
	ri.DAQmx.RawWidths = make([]uint32, nWidths)
	for i := range ri.DAQmx.RawWidths {
		if ri.DAQmx.RawWidths[i], err = r.ReadUint32(); err != nil {
			return RawIndex{}, err
		}
	}
	return ri, nil
}

func decodeScaler(r *binpkg.Reader, digital bool) (Scaler, error) {
	var s Scaler
	var err error
	if s.DataType, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if s.BufferIndex, err = r.ReadUint32(); err != nil {
		return s, err
	}
	if digital {
		if s.BitOffset, err = r.ReadUint32(); err != nil {
			return s, err
		}
		format, err := r.ReadUint8()
		if err != nil {
			return s, err
		}
		s.SampleFormat = uint32(format)
	} else {
		if s.ByteOffset, err = r.ReadUint32(); err != nil {
			return s, err
		}
		if s.SampleFormat, err = r.ReadUint32(); err != nil {
			return s, err
		}
	}
	if s.ScaleID, err = r.ReadUint32(); err != nil {
		return s, err
	}
	return s, nil
}

func decodeProperties(r *binpkg.Reader) ([]Property, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	// name length + type code + smallest value
	props := make([]Property, 0, min(int64(n), r.Remaining()/9))
	for i := uint32(0); i < n; i++ {
		name, err := r.ReadString()
		if err != nil {
			return props, err
		}
		code, err := r.ReadUint32()
		if err != nil {
			return props, err
		}
		t := dtype.DataType(code)
		val, err := dtype.ReadValue(r, t)
		if err != nil {
			return props, fmt.Errorf("property %q: %w", name, err)
		}
		props = append(props, Property{Name: name, Type: t, Value: val})
	}
	return props, nil
}

// truncated converts a cursor truncation into a metadata truncation.
func truncated(err error, path string) error {
	var te *binpkg.TruncatedError
	if errors.As(err, &te) {
		return &TruncatedError{Offset: te.Offset, Want: te.Want, Have: te.Have, Path: path}
	}
	return err
}

func wrapObject(err error, path string) error {
	var te *binpkg.TruncatedError
	if errors.As(err, &te) {
		return truncated(err, path)
	}
	return fmt.Errorf("object %q: %w", path, err)
}
