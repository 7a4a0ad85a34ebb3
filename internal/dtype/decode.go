package dtype

import (
	"encoding/binary"
	"math"

	binpkg "github.com/robert-malhotra/go-tdms/internal/binary"
)

// ReadValue decodes a single value of type t at the reader's position.
// Strings are length prefixed; all other types have a fixed width.
func ReadValue(r *binpkg.Reader, t DataType) (any, error) {
	if t.IsString() {
		return r.ReadString()
	}
	size := t.Size()
	if size == 0 {
		return nil, &UnsupportedTypeError{Code: t, Offset: r.Pos()}
	}
	buf, err := r.ReadBytes(size)
	if err != nil {
		return nil, err
	}
	return DecodeElement(t, r.ByteOrder(), buf), nil
}

// DecodeElement decodes one fixed-width element. b must hold at least
// t.Size() bytes; a type without fixed width decodes to nil.
func DecodeElement(t DataType, order binary.ByteOrder, b []byte) any {
	switch t {
	case Int8:
		return int8(b[0])
	case Uint8:
		return b[0]
	case Boolean:
		return b[0] != 0
	case Int16:
		return int16(order.Uint16(b))
	case Uint16:
		return order.Uint16(b)
	case Int32:
		return int32(order.Uint32(b))
	case Uint32:
		return order.Uint32(b)
	case Int64:
		return int64(order.Uint64(b))
	case Uint64:
		return order.Uint64(b)
	case SingleFloat, SingleFloatWithUnit:
		return math.Float32frombits(order.Uint32(b))
	case DoubleFloat, DoubleFloatWithUnit:
		return math.Float64frombits(order.Uint64(b))
	case TimeStamp:
		return decodeTimestamp(order, b)
	case ComplexSingleFloat:
		re := math.Float32frombits(order.Uint32(b[0:4]))
		im := math.Float32frombits(order.Uint32(b[4:8]))
		return complex(re, im)
	case ComplexDoubleFloat:
		re := math.Float64frombits(order.Uint64(b[0:8]))
		im := math.Float64frombits(order.Uint64(b[8:16]))
		return complex(re, im)
	default:
		return nil
	}
}

func decodeTimestamp(order binary.ByteOrder, b []byte) Timestamp {
	if isBigEndian(order) {
		return Timestamp{
			Seconds:  int64(order.Uint64(b[0:8])),
			Fraction: order.Uint64(b[8:16]),
		}
	}
	return Timestamp{
		Fraction: order.Uint64(b[0:8]),
		Seconds:  int64(order.Uint64(b[8:16])),
	}
}

// EncodeTimestamp writes ts into b (16 bytes) in the layout used by order.
func EncodeTimestamp(order binary.ByteOrder, b []byte, ts Timestamp) {
	if isBigEndian(order) {
		order.PutUint64(b[0:8], uint64(ts.Seconds))
		order.PutUint64(b[8:16], ts.Fraction)
		return
	}
	order.PutUint64(b[0:8], ts.Fraction)
	order.PutUint64(b[8:16], uint64(ts.Seconds))
}
