package dtype

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	binpkg "github.com/robert-malhotra/go-tdms/internal/binary"
)

func reader(order binary.ByteOrder, data []byte) *binpkg.Reader {
	return binpkg.NewReader(bytes.NewReader(data), binpkg.Config{ByteOrder: order, Size: int64(len(data))})
}

func TestSize(t *testing.T) {
	tests := []struct {
		dt   DataType
		size int
	}{
		{Int8, 1}, {Uint8, 1}, {Boolean, 1},
		{Int16, 2}, {Uint16, 2},
		{Int32, 4}, {Uint32, 4}, {SingleFloat, 4}, {SingleFloatWithUnit, 4},
		{Int64, 8}, {Uint64, 8}, {DoubleFloat, 8}, {DoubleFloatWithUnit, 8}, {ComplexSingleFloat, 8},
		{TimeStamp, 16}, {ComplexDoubleFloat, 16},
		{String, 0}, {Void, 0}, {ExtendedFloat, 0}, {FixedPoint, 0}, {DAQmxRawData, 0},
	}

	for _, tt := range tests {
		t.Run(tt.dt.String(), func(t *testing.T) {
			if got := tt.dt.Size(); got != tt.size {
				t.Errorf("expected size %d, got %d", tt.size, got)
			}
		})
	}
}

func TestGoType(t *testing.T) {
	tests := []struct {
		dt       DataType
		expected reflect.Type
	}{
		{Int8, reflect.TypeOf(int8(0))},
		{Uint64, reflect.TypeOf(uint64(0))},
		{DoubleFloatWithUnit, reflect.TypeOf(float64(0))},
		{String, reflect.TypeOf("")},
		{Boolean, reflect.TypeOf(true)},
		{TimeStamp, reflect.TypeOf(Timestamp{})},
		{ComplexSingleFloat, reflect.TypeOf(complex64(0))},
	}

	for _, tt := range tests {
		got, err := GoType(tt.dt)
		if err != nil {
			t.Fatalf("GoType(%s) failed: %v", tt.dt, err)
		}
		if got != tt.expected {
			t.Errorf("GoType(%s): expected %v, got %v", tt.dt, tt.expected, got)
		}
	}

	if _, err := GoType(FixedPoint); err == nil {
		t.Error("expected error for FixedPoint")
	}
}

func TestDataTypeString(t *testing.T) {
	if Int32.String() != "I32" {
		t.Errorf("unexpected name %q", Int32.String())
	}
	if DataType(0x77).String() != "DataType(0x77)" {
		t.Errorf("unexpected name %q", DataType(0x77).String())
	}
}

func TestReadValueScalars(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(-5))
	binary.Write(&buf, binary.LittleEndian, uint16(600))
	binary.Write(&buf, binary.LittleEndian, float64(2.5))
	buf.WriteByte(1)
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	buf.WriteString("abc")

	r := reader(binary.LittleEndian, buf.Bytes())

	want := []struct {
		dt  DataType
		val any
	}{
		{Int32, int32(-5)},
		{Uint16, uint16(600)},
		{DoubleFloat, 2.5},
		{Boolean, true},
		{String, "abc"},
	}
	for _, w := range want {
		got, err := ReadValue(r, w.dt)
		if err != nil {
			t.Fatalf("ReadValue(%s) failed: %v", w.dt, err)
		}
		if got != w.val {
			t.Errorf("ReadValue(%s): expected %v (%T), got %v (%T)", w.dt, w.val, w.val, got, got)
		}
	}
}

func TestReadValueUnsupported(t *testing.T) {
	r := reader(binary.LittleEndian, make([]byte, 32))
	if err := r.Skip(4); err != nil {
		t.Fatal(err)
	}

	_, err := ReadValue(r, ExtendedFloat)
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
	if ute.Code != ExtendedFloat || ute.Offset != 4 {
		t.Errorf("unexpected error fields: %+v", ute)
	}
}

func TestTimestampByteOrder(t *testing.T) {
	ts := Timestamp{Seconds: 3_000_000_000, Fraction: 1 << 63}

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		b := make([]byte, 16)
		EncodeTimestamp(order, b, ts)

		got, err := ReadValue(reader(order, b), TimeStamp)
		if err != nil {
			t.Fatalf("%s: ReadValue failed: %v", order, err)
		}
		if got != ts {
			t.Errorf("%s: expected %+v, got %+v", order, ts, got)
		}
	}

	// Little-endian keeps the fraction in the first eight bytes.
	b := make([]byte, 16)
	EncodeTimestamp(binary.LittleEndian, b, ts)
	if binary.LittleEndian.Uint64(b[0:8]) != ts.Fraction {
		t.Error("little-endian timestamp should store the fraction first")
	}
}

func TestTimestampTime(t *testing.T) {
	if !(Timestamp{}).Time().Equal(Epoch) {
		t.Errorf("zero timestamp should be the TDMS epoch, got %v", Timestamp{}.Time())
	}

	want := time.Date(2024, 3, 1, 12, 0, 0, 500_000_000, time.UTC)
	ts := TimestampOf(want)
	if ts.Fraction != 1<<63 {
		t.Errorf("half a second should be 2^63, got %d", ts.Fraction)
	}
	if got := ts.Time(); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestConvertExact(t *testing.T) {
	data := make([]byte, 12)
	for i, v := range []int32{1, -2, 3} {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(v))
	}

	var out []int32
	if err := Convert(Int32, binary.LittleEndian, data, 3, &out); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !reflect.DeepEqual(out, []int32{1, -2, 3}) {
		t.Errorf("unexpected result %v", out)
	}
}

func TestConvertWidening(t *testing.T) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint32(data, math.Float32bits(1.5))
	binary.BigEndian.PutUint32(data[4:], math.Float32bits(-4))

	var f64 []float64
	if err := Convert(SingleFloat, binary.BigEndian, data, 2, &f64); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !reflect.DeepEqual(f64, []float64{1.5, -4}) {
		t.Errorf("unexpected float64 result %v", f64)
	}

	var i64 []int64
	if err := Convert(SingleFloat, binary.BigEndian, data, 2, &i64); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !reflect.DeepEqual(i64, []int64{1, -4}) {
		t.Errorf("unexpected int64 result %v", i64)
	}
}

func TestConvertAny(t *testing.T) {
	vals, err := ConvertValues(Boolean, binary.LittleEndian, []byte{0, 1, 7}, 3)
	if err != nil {
		t.Fatalf("ConvertValues failed: %v", err)
	}
	if !reflect.DeepEqual(vals, []any{false, true, true}) {
		t.Errorf("unexpected result %v", vals)
	}
}

func TestConvertTimestampToTime(t *testing.T) {
	b := make([]byte, 16)
	EncodeTimestamp(binary.LittleEndian, b, Timestamp{Seconds: 86400})

	var out []time.Time
	if err := Convert(TimeStamp, binary.LittleEndian, b, 1, &out); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if want := Epoch.Add(24 * time.Hour); !out[0].Equal(want) {
		t.Errorf("expected %v, got %v", want, out[0])
	}
}

func TestConvertErrors(t *testing.T) {
	data := make([]byte, 8)

	var s []string
	if err := Convert(Int32, binary.LittleEndian, data, 2, &s); err == nil {
		t.Error("expected error converting integers to strings")
	}

	var b []bool
	if err := Convert(Int32, binary.LittleEndian, data, 2, &b); err == nil {
		t.Error("expected error converting integers to bool")
	}

	var i []int32
	if err := Convert(Int32, binary.LittleEndian, data, 3, &i); err == nil {
		t.Error("expected error for short data")
	}
	if err := Convert(Int32, binary.LittleEndian, data, 2, i); err == nil {
		t.Error("expected error for non-pointer dest")
	}

	var ute *UnsupportedTypeError
	if err := Convert(String, binary.LittleEndian, data, 2, &s); !errors.As(err, &ute) {
		t.Errorf("expected UnsupportedTypeError for strings, got %v", err)
	}
}
