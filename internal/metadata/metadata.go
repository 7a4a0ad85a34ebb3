package metadata

import (
	"fmt"

	"github.com/robert-malhotra/go-tdms/internal/dtype"
)

// Kind selects the form of a raw data index.
type Kind uint8

const (
	// NoData means the object carries no raw data in the segment.
	NoData Kind = iota
	// MatchesPrevious reuses the object's last explicit layout.
	MatchesPrevious
	// Explicit carries a full layout.
	Explicit
	// DAQmx carries a DAQmx scaler layout.
	DAQmx
)

func (k Kind) String() string {
	switch k {
	case NoData:
		return "NoData"
	case MatchesPrevious:
		return "MatchesPrevious"
	case Explicit:
		return "Explicit"
	case DAQmx:
		return "DAQmx"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// RawIndex describes an object's raw data in one segment. Only Explicit and
// DAQmx indices carry a payload.
type RawIndex struct {
	Kind Kind

	DataType  dtype.DataType
	Dimension uint32
	NumValues uint64

	// TotalSize is the byte size of all values of a string channel.
	TotalSize uint64

	// DAQmx is set for Kind DAQmx.
	DAQmx *DAQmxIndex
}

// HasLayout reports whether the index carries a layout of its own.
func (ri RawIndex) HasLayout() bool {
	return ri.Kind == Explicit || ri.Kind == DAQmx
}

// DAQmxIndex is the layout of a channel stored in DAQmx raw buffers.
type DAQmxIndex struct {
	// Digital is set for digital line scalers.
	Digital   bool
	Scalers   []Scaler
	RawWidths []uint32
}

// Scaler locates one channel's samples inside a DAQmx raw buffer row.
type Scaler struct {
	// DataType is the DAQmx sample type code (see [ScalerDataType]).
	DataType    uint32
	BufferIndex uint32

	// ByteOffset is the offset within a row for format changing scalers.
	ByteOffset uint32

	// BitOffset is the bit within a row for digital line scalers.
	BitOffset uint32

	SampleFormat uint32
	ScaleID      uint32
}

// DAQmx sample type codes.
const (
	daqmxUint8     = 0
	daqmxInt8      = 1
	daqmxUint16    = 2
	daqmxInt16     = 3
	daqmxUint32    = 4
	daqmxInt32     = 5
	daqmxUint64    = 6
	daqmxInt64     = 7
	daqmxFloat32   = 8
	daqmxFloat64   = 9
	daqmxTimestamp = 0xFFFFFFFF
)

// ScalerDataType maps a DAQmx sample type code to the TDMS type of the
// unscaled samples.
func ScalerDataType(code uint32) (dtype.DataType, bool) {
	switch code {
	case daqmxUint8:
		return dtype.Uint8, true
	case daqmxInt8:
		return dtype.Int8, true
	case daqmxUint16:
		return dtype.Uint16, true
	case daqmxInt16:
		return dtype.Int16, true
	case daqmxUint32:
		return dtype.Uint32, true
	case daqmxInt32:
		return dtype.Int32, true
	case daqmxUint64:
		return dtype.Uint64, true
	case daqmxInt64:
		return dtype.Int64, true
	case daqmxFloat32:
		return dtype.SingleFloat, true
	case daqmxFloat64:
		return dtype.DoubleFloat, true
	case daqmxTimestamp:
		return dtype.TimeStamp, true
	}
	return 0, false
}

// Property is a named, typed value attached to an object.
type Property struct {
	Name  string
	Type  dtype.DataType
	Value any
}

// Object is one record of a metadata block.
type Object struct {
	Path string

	// Offset is the file position of the record.
	Offset int64

	Index      RawIndex
	Properties []Property
}

// TruncatedError is returned when an object record runs past the end of the
// metadata block.
type TruncatedError struct {
	Offset int64  // position of the read that failed
	Want   int64  // bytes the read needed
	Have   int64  // bytes left in the block
	Path   string // object being decoded, if known
}

func (e *TruncatedError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("metadata truncated at offset %d in object %q: want %d bytes, %d available",
			e.Offset, e.Path, e.Want, e.Have)
	}
	return fmt.Sprintf("metadata truncated at offset %d: want %d bytes, %d available", e.Offset, e.Want, e.Have)
}
