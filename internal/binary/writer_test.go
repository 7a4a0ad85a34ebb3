package binary

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWriterRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			var buf Buffer
			w := NewWriter(&buf, order)

			if err := w.WriteUint32(0xCAFEBABE); err != nil {
				t.Fatal(err)
			}
			if err := w.WriteInt64(-7); err != nil {
				t.Fatal(err)
			}
			if err := w.WriteFloat64(3.25); err != nil {
				t.Fatal(err)
			}
			if err := w.WriteString("abc"); err != nil {
				t.Fatal(err)
			}
			if w.Pos() != int64(buf.Len()) {
				t.Errorf("position %d does not match buffer length %d", w.Pos(), buf.Len())
			}

			r := NewReader(bytes.NewReader(buf.Bytes()), Config{ByteOrder: order, Size: int64(buf.Len())})
			u, _ := r.ReadUint32()
			i, _ := r.ReadInt64()
			f, _ := r.ReadFloat64()
			s, err := r.ReadString()
			if err != nil {
				t.Fatalf("ReadString failed: %v", err)
			}
			if u != 0xCAFEBABE || i != -7 || f != 3.25 || s != "abc" {
				t.Errorf("round trip mismatch: %x %d %v %q", u, i, f, s)
			}
		})
	}
}

func TestWriterAt(t *testing.T) {
	var buf Buffer
	w := NewWriter(&buf, binary.LittleEndian)

	w2 := w.At(4)
	if err := w2.WriteUint8(0xAB); err != nil {
		t.Fatalf("WriteUint8 failed: %v", err)
	}
	if w.Pos() != 0 {
		t.Errorf("original writer should be unaffected, pos=%d", w.Pos())
	}

	expected := []byte{0, 0, 0, 0, 0xAB}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expected %v, got %v", expected, buf.Bytes())
	}
}

func TestWriterZeros(t *testing.T) {
	var buf Buffer
	w := NewWriter(&buf, nil)

	if err := w.WriteZeros(3); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteZeros(0); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 3 {
		t.Errorf("expected 3 bytes, got %d", buf.Len())
	}
}
