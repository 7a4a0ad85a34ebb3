package rawdata

import (
	"errors"
	"fmt"
	"io"

	binpkg "github.com/robert-malhotra/go-tdms/internal/binary"
	"github.com/robert-malhotra/go-tdms/internal/leadin"
)

// ErrUnavailable is returned when reading a span marked unavailable.
var ErrUnavailable = errors.New("span data unavailable")

// Gather reads n values of a fixed-width span starting at value start and
// returns them packed, element i at bytes [i*size, (i+1)*size).
func Gather(r io.ReaderAt, s Span, start, n uint64) ([]byte, error) {
	if s.Unavailable {
		return nil, unavailable(s)
	}
	if s.Type.IsString() {
		return nil, fmt.Errorf("gather: %s span needs Strings", s.Type)
	}
	if err := checkRange(s, start, n); err != nil {
		return nil, err
	}

	size := int64(s.Type.Size())
	out := make([]byte, 0, int64(n)*size)
	for n > 0 {
		chunk, idx := start/s.Count, start%s.Count
		take := min(n, s.Count-idx)
		base := s.Offset + int64(chunk)*s.ChunkStride + int64(idx)*s.Stride

		var err error
		if s.Stride == size {
			out, err = appendRun(r, out, base, int64(take)*size)
		} else {
			out, err = appendStrided(r, out, base, int64(take), size, s.Stride)
		}
		if err != nil {
			return nil, err
		}
		start += take
		n -= take
	}

	if s.Digital {
		for i := range out {
			out[i] = (out[i] >> s.Bit) & 1
		}
	}
	return out, nil
}

// Strings reads n values of a string span starting at value start.
func Strings(r io.ReaderAt, s Span, start, n uint64) ([]string, error) {
	if s.Unavailable {
		return nil, unavailable(s)
	}
	if !s.Type.IsString() {
		return nil, fmt.Errorf("strings: span holds %s values", s.Type)
	}
	if err := checkRange(s, start, n); err != nil {
		return nil, err
	}

	out := make([]string, 0, n)
	for n > 0 {
		chunk, idx := start/s.Count, start%s.Count
		take := min(n, s.Count-idx)
		vals, err := chunkStrings(r, s, s.Offset+int64(chunk)*s.ChunkStride, idx, take)
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
		start += take
		n -= take
	}
	return out, nil
}

// chunkStrings decodes values [idx, idx+n) of one chunk's string block.
func chunkStrings(r io.ReaderAt, s Span, base int64, idx, n uint64) ([]string, error) {
	tableLen := int64(s.Count) * 4
	table, err := readAt(r, base, tableLen)
	if err != nil {
		return nil, err
	}
	dataLen := s.ByteLength - tableLen
	end := func(i uint64) uint32 { return s.Order.Uint32(table[i*4:]) }

	var lo uint32
	if idx > 0 {
		lo = end(idx - 1)
	}
	hi := end(idx + n - 1)
	if lo > hi || int64(hi) > dataLen {
		return nil, &leadin.CorruptSegmentError{
			Offset: base,
			Reason: fmt.Sprintf("string offsets %d..%d outside %d data bytes", lo, hi, dataLen),
		}
	}
	data, err := readAt(r, base+tableLen+int64(lo), int64(hi-lo))
	if err != nil {
		return nil, err
	}

	out := make([]string, n)
	prev := lo
	for i := uint64(0); i < n; i++ {
		e := end(idx + i)
		if e < prev || e > hi {
			return nil, &leadin.CorruptSegmentError{
				Offset: base + int64(idx+i)*4,
				Reason: fmt.Sprintf("string end offset %d out of order", e),
			}
		}
		out[i] = string(data[prev-lo : e-lo])
		prev = e
	}
	return out, nil
}

func checkRange(s Span, start, n uint64) error {
	if total := s.Len(); start > total || n > total-start {
		return fmt.Errorf("range [%d, %d) outside span of %d values", start, start+n, total)
	}
	return nil
}

func appendRun(r io.ReaderAt, out []byte, off, n int64) ([]byte, error) {
	buf, err := readAt(r, off, n)
	if err != nil {
		return nil, err
	}
	return append(out, buf...), nil
}

func appendStrided(r io.ReaderAt, out []byte, off, n, size, stride int64) ([]byte, error) {
	buf, err := readAt(r, off, (n-1)*stride+size)
	if err != nil {
		return nil, err
	}
	for i := int64(0); i < n; i++ {
		out = append(out, buf[i*stride:i*stride+size]...)
	}
	return out, nil
}

func readAt(r io.ReaderAt, off, n int64) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	got, err := r.ReadAt(buf, off)
	if int64(got) < n {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, &binpkg.TruncatedError{Offset: off, Want: n, Have: int64(got)}
		}
		return nil, err
	}
	return buf, nil
}

func unavailable(s Span) error {
	if s.Err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, s.Err)
	}
	return ErrUnavailable
}
