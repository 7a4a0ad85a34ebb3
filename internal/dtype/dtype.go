package dtype

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"reflect"
	"time"
)

// DataType is a TDMS type code.
type DataType uint32

// TDMS type codes.
const (
	Void                  DataType = 0x00
	Int8                  DataType = 0x01
	Int16                 DataType = 0x02
	Int32                 DataType = 0x03
	Int64                 DataType = 0x04
	Uint8                 DataType = 0x05
	Uint16                DataType = 0x06
	Uint32                DataType = 0x07
	Uint64                DataType = 0x08
	SingleFloat           DataType = 0x09
	DoubleFloat           DataType = 0x0A
	ExtendedFloat         DataType = 0x0B
	SingleFloatWithUnit   DataType = 0x19
	DoubleFloatWithUnit   DataType = 0x1A
	ExtendedFloatWithUnit DataType = 0x1B
	String                DataType = 0x20
	Boolean               DataType = 0x21
	TimeStamp             DataType = 0x44
	FixedPoint            DataType = 0x4F
	ComplexSingleFloat    DataType = 0x08000C
	ComplexDoubleFloat    DataType = 0x10000D
	DAQmxRawData          DataType = 0xFFFFFFFF
)

var typeNames = map[DataType]string{
	Void:                  "Void",
	Int8:                  "I8",
	Int16:                 "I16",
	Int32:                 "I32",
	Int64:                 "I64",
	Uint8:                 "U8",
	Uint16:                "U16",
	Uint32:                "U32",
	Uint64:                "U64",
	SingleFloat:           "SingleFloat",
	DoubleFloat:           "DoubleFloat",
	ExtendedFloat:         "ExtendedFloat",
	SingleFloatWithUnit:   "SingleFloatWithUnit",
	DoubleFloatWithUnit:   "DoubleFloatWithUnit",
	ExtendedFloatWithUnit: "ExtendedFloatWithUnit",
	String:                "String",
	Boolean:               "Boolean",
	TimeStamp:             "TimeStamp",
	FixedPoint:            "FixedPoint",
	ComplexSingleFloat:    "ComplexSingleFloat",
	ComplexDoubleFloat:    "ComplexDoubleFloat",
	DAQmxRawData:          "DAQmxRawData",
}

func (t DataType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(0x%X)", uint32(t))
}

// Size returns the encoded width of one element in bytes. It returns 0 for
// strings and for types that cannot be decoded.
func (t DataType) Size() int {
	switch t {
	case Int8, Uint8, Boolean:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, SingleFloat, SingleFloatWithUnit:
		return 4
	case Int64, Uint64, DoubleFloat, DoubleFloatWithUnit, ComplexSingleFloat:
		return 8
	case TimeStamp, ComplexDoubleFloat:
		return 16
	default:
		return 0
	}
}

// IsString reports whether t is the variable-width string type.
func (t DataType) IsString() bool {
	return t == String
}

// Decodable reports whether values of type t can be decoded.
func (t DataType) Decodable() bool {
	return t.IsString() || t.Size() > 0
}

// UnsupportedTypeError is returned for type codes that cannot be decoded.
// Offset is the file position of the value, or -1 when not known.
type UnsupportedTypeError struct {
	Code   DataType
	Offset int64
}

func (e *UnsupportedTypeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("unsupported data type %s", e.Code)
	}
	return fmt.Sprintf("unsupported data type %s at offset %d", e.Code, e.Offset)
}

// Epoch is the zero point of TDMS timestamps.
var Epoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// epochUnix is Epoch in seconds relative to the Unix epoch.
const epochUnix = -2082844800

// Timestamp is a TDMS timestamp: whole seconds since [Epoch] plus a fraction
// of a second in units of 2^-64 seconds.
type Timestamp struct {
	Seconds  int64
	Fraction uint64
}

// Time converts the timestamp to a UTC time.Time truncated to nanoseconds.
func (ts Timestamp) Time() time.Time {
	nanos, _ := bits.Mul64(ts.Fraction, uint64(time.Second))
	return time.Unix(ts.Seconds+epochUnix, int64(nanos)).UTC()
}

func (ts Timestamp) String() string {
	return ts.Time().Format(time.RFC3339Nano)
}

// TimestampOf converts t into a TDMS timestamp.
func TimestampOf(t time.Time) Timestamp {
	secs := t.Unix() - epochUnix
	frac, _ := bits.Div64(uint64(t.Nanosecond()), 0, uint64(time.Second))
	return Timestamp{Seconds: secs, Fraction: frac}
}

var (
	timestampType = reflect.TypeOf(Timestamp{})
	timeType      = reflect.TypeOf(time.Time{})
)

// GoType returns the Go type that values of t decode to.
func GoType(t DataType) (reflect.Type, error) {
	switch t {
	case Int8:
		return reflect.TypeOf(int8(0)), nil
	case Int16:
		return reflect.TypeOf(int16(0)), nil
	case Int32:
		return reflect.TypeOf(int32(0)), nil
	case Int64:
		return reflect.TypeOf(int64(0)), nil
	case Uint8:
		return reflect.TypeOf(uint8(0)), nil
	case Uint16:
		return reflect.TypeOf(uint16(0)), nil
	case Uint32:
		return reflect.TypeOf(uint32(0)), nil
	case Uint64:
		return reflect.TypeOf(uint64(0)), nil
	case SingleFloat, SingleFloatWithUnit:
		return reflect.TypeOf(float32(0)), nil
	case DoubleFloat, DoubleFloatWithUnit:
		return reflect.TypeOf(float64(0)), nil
	case String:
		return reflect.TypeOf(""), nil
	case Boolean:
		return reflect.TypeOf(false), nil
	case TimeStamp:
		return timestampType, nil
	case ComplexSingleFloat:
		return reflect.TypeOf(complex64(0)), nil
	case ComplexDoubleFloat:
		return reflect.TypeOf(complex128(0)), nil
	default:
		return nil, &UnsupportedTypeError{Code: t, Offset: -1}
	}
}

func isBigEndian(order binary.ByteOrder) bool {
	return order == binary.BigEndian
}
