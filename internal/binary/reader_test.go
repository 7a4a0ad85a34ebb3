package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func newTestReader(data []byte) *Reader {
	return NewReader(bytes.NewReader(data), DefaultConfig(int64(len(data))))
}

func TestReaderReadUint8(t *testing.T) {
	r := newTestReader([]byte{0x42, 0xFF, 0x00})

	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}

	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0xFF {
		t.Errorf("expected 0xFF, got 0x%02x", v)
	}
}

func TestReaderReadUint32(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0x12345678))
	binary.Write(&buf, binary.LittleEndian, uint32(0xDEADBEEF))

	r := newTestReader(buf.Bytes())

	v, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 0x12345678 {
		t.Errorf("expected 0x12345678, got 0x%08x", v)
	}

	v, err = r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 0xDEADBEEF {
		t.Errorf("expected 0xDEADBEEF, got 0x%08x", v)
	}
}

func TestReaderByteOrder(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x2A, 0x00, 0x00, 0x00, 0x2A}

	r := newTestReader(data).WithByteOrder(binary.BigEndian)
	v, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if v != 42 {
		t.Errorf("big-endian: expected 42, got %d", v)
	}

	le := r.WithByteOrder(binary.LittleEndian)
	v, err = le.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if v != 0x2A000000 {
		t.Errorf("little-endian: expected 0x2A000000, got 0x%x", v)
	}
}

func TestReaderFloats(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, float32(1.5))
	binary.Write(&buf, binary.LittleEndian, float64(-2.25))

	r := newTestReader(buf.Bytes())
	f32, err := r.ReadFloat32()
	if err != nil {
		t.Fatalf("ReadFloat32 failed: %v", err)
	}
	if f32 != 1.5 {
		t.Errorf("expected 1.5, got %v", f32)
	}
	f64, err := r.ReadFloat64()
	if err != nil {
		t.Fatalf("ReadFloat64 failed: %v", err)
	}
	if f64 != -2.25 {
		t.Errorf("expected -2.25, got %v", f64)
	}
}

func TestReaderReadString(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(5))
	buf.WriteString("hello")

	r := newTestReader(buf.Bytes())
	s, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString failed: %v", err)
	}
	if s != "hello" {
		t.Errorf("expected hello, got %q", s)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", r.Remaining())
	}
}

func TestReaderReadStringTruncated(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(1000))
	buf.WriteString("short")

	r := newTestReader(buf.Bytes())
	_, err := r.ReadString()

	var te *TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedError, got %v", err)
	}
	if te.Offset != 4 || te.Want != 1000 || te.Have != 5 {
		t.Errorf("unexpected error fields: %+v", te)
	}
	if r.Pos() != 0 {
		t.Errorf("failed ReadString should not move the cursor, pos=%d", r.Pos())
	}
}

func TestReaderTruncated(t *testing.T) {
	r := newTestReader([]byte{0x01, 0x02, 0x03})

	_, err := r.ReadUint64()
	var te *TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedError, got %v", err)
	}
	if te.Offset != 0 || te.Want != 8 || te.Have != 3 {
		t.Errorf("unexpected error fields: %+v", te)
	}
}

func TestReaderShortSource(t *testing.T) {
	// Declared size larger than the bytes actually present.
	data := []byte{0x01, 0x02}
	r := NewReader(bytes.NewReader(data), DefaultConfig(16))

	_, err := r.ReadUint32()
	var te *TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedError, got %v", err)
	}
	if te.Have != 2 {
		t.Errorf("expected 2 bytes available, got %d", te.Have)
	}
}

func TestReaderLimit(t *testing.T) {
	r := newTestReader([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	lim := r.At(2).Limit(4)

	if lim.Remaining() != 2 {
		t.Fatalf("expected 2 remaining, got %d", lim.Remaining())
	}
	if _, err := lim.ReadUint16(); err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if _, err := lim.ReadUint8(); err == nil {
		t.Error("expected read past limit to fail")
	}

	wide := r.Limit(100)
	if wide.End() != 8 {
		t.Errorf("limit should clamp to source end, got %d", wide.End())
	}
}

func TestReaderAt(t *testing.T) {
	r := newTestReader([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})

	// Read from offset 3
	r2 := r.At(3)
	v, err := r2.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x03 {
		t.Errorf("expected 0x03, got 0x%02x", v)
	}

	// Original reader should be unaffected
	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x00 {
		t.Errorf("expected 0x00, got 0x%02x", v)
	}
}

func TestReaderSeekSkip(t *testing.T) {
	r := newTestReader([]byte{0x00, 0x01, 0x02, 0x03, 0x04})

	if err := r.Skip(2); err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x02 {
		t.Errorf("expected 0x02, got 0x%02x", v)
	}

	if err := r.Seek(5); err != nil {
		t.Fatalf("Seek to end failed: %v", err)
	}
	if err := r.Seek(6); err == nil {
		t.Error("expected Seek past end to fail")
	}
	if err := r.Skip(-1); !errors.Is(err, ErrNegativeLength) {
		t.Errorf("expected ErrNegativeLength, got %v", err)
	}
}

func TestReaderPeek(t *testing.T) {
	r := newTestReader([]byte{0x00, 0x01, 0x02, 0x03})

	// Peek should not advance position
	peeked, err := r.Peek(2)
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if !bytes.Equal(peeked, []byte{0x00, 0x01}) {
		t.Errorf("expected [0x00, 0x01], got %v", peeked)
	}

	if r.Pos() != 0 {
		t.Errorf("Peek should not advance position, got %d", r.Pos())
	}

	read, err := r.ReadBytes(2)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if !bytes.Equal(read, peeked) {
		t.Errorf("Read after Peek mismatch: %v vs %v", read, peeked)
	}
}
