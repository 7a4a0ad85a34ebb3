package dtype

// Conversion Strategy
//
// Raw channel data arrives as packed elements: for contiguous and interleaved
// spans the rawdata package has already removed the stride, so element i
// occupies bytes [i*size, (i+1)*size). Convert walks those elements and stores
// them into the caller's slice.
//
// Destination kinds:
//   - *[]any: each element holds the natural Go type (see GoType)
//   - *[]T with T the natural type, or any numeric T the natural type
//     converts to (widening or narrowing, as reflect.Value.Convert allows)
//   - *[]time.Time for timestamps
//
// Numeric values are never converted into strings, and booleans only go to
// bool or any.

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Convert decodes n packed elements of type t from data into dest, which must
// be a pointer to a slice. The slice is replaced with a new one of length n.
func Convert(t DataType, order binary.ByteOrder, data []byte, n int, dest any) error {
	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr || destVal.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to a slice, got %T", dest)
	}

	size := t.Size()
	if size == 0 {
		return &UnsupportedTypeError{Code: t, Offset: -1}
	}
	if n < 0 || len(data) < n*size {
		return fmt.Errorf("short data: %d %s values need %d bytes, have %d", n, t, n*size, len(data))
	}

	if out, ok := dest.(*[]float64); ok && isNumeric(t) {
		*out = convertFloat64(t, order, data, n)
		return nil
	}

	slice := destVal.Elem()
	elemType := slice.Type().Elem()
	if err := checkConvertible(t, elemType); err != nil {
		return err
	}

	result := reflect.MakeSlice(slice.Type(), n, n)
	for i := 0; i < n; i++ {
		v := DecodeElement(t, order, data[i*size:(i+1)*size])
		dst := result.Index(i)
		switch {
		case elemType.Kind() == reflect.Interface:
			dst.Set(reflect.ValueOf(v))
		case elemType == timeType:
			dst.Set(reflect.ValueOf(v.(Timestamp).Time()))
		default:
			dst.Set(reflect.ValueOf(v).Convert(elemType))
		}
	}
	slice.Set(result)
	return nil
}

// ConvertValues decodes n packed elements into a []any.
func ConvertValues(t DataType, order binary.ByteOrder, data []byte, n int) ([]any, error) {
	var out []any
	if err := Convert(t, order, data, n, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func checkConvertible(t DataType, elemType reflect.Type) error {
	if elemType.Kind() == reflect.Interface {
		if elemType.NumMethod() > 0 {
			return fmt.Errorf("cannot store %s values in %s", t, elemType)
		}
		return nil
	}
	natural, err := GoType(t)
	if err != nil {
		return err
	}
	switch {
	case t == TimeStamp:
		if elemType == timestampType || elemType == timeType {
			return nil
		}
	case t == Boolean:
		if elemType.Kind() == reflect.Bool {
			return nil
		}
	case elemType.Kind() == reflect.String || elemType.Kind() == reflect.Bool:
		// reflect would turn integers into runes
	case natural.ConvertibleTo(elemType):
		return nil
	}
	return fmt.Errorf("cannot convert %s values to %s", t, elemType)
}

func isNumeric(t DataType) bool {
	switch t {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64,
		SingleFloat, SingleFloatWithUnit, DoubleFloat, DoubleFloatWithUnit:
		return true
	}
	return false
}

// convertFloat64 is the common path for analysis code reading into []float64.
func convertFloat64(t DataType, order binary.ByteOrder, data []byte, n int) []float64 {
	size := t.Size()
	out := make([]float64, n)
	for i := range out {
		switch v := DecodeElement(t, order, data[i*size:(i+1)*size]).(type) {
		case int8:
			out[i] = float64(v)
		case int16:
			out[i] = float64(v)
		case int32:
			out[i] = float64(v)
		case int64:
			out[i] = float64(v)
		case uint8:
			out[i] = float64(v)
		case uint16:
			out[i] = float64(v)
		case uint32:
			out[i] = float64(v)
		case uint64:
			out[i] = float64(v)
		case float32:
			out[i] = float64(v)
		case float64:
			out[i] = v
		}
	}
	return out
}
