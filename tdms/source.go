package tdms

import (
	"fmt"
	"io"
	"os"

	"github.com/robert-malhotra/go-tdms/internal/mmap"
)

// Source is a random access byte source of known size. Sources that also
// implement io.Closer are closed by File.Close when the file owns them.
type Source interface {
	io.ReaderAt
	Size() int64
}

type sizedReader struct {
	io.ReaderAt
	size int64
}

func (s sizedReader) Size() int64 { return s.size }

// NewSource wraps r as a Source of size bytes.
func NewSource(r io.ReaderAt, size int64) Source {
	return sizedReader{ReaderAt: r, size: size}
}

type osFile struct {
	*os.File
	size int64
}

func (f osFile) Size() int64 { return f.size }

// openLocal opens path as an owned source.
func openLocal(path string, useMmap bool) (Source, error) {
	if useMmap {
		m, err := mmap.Open(path)
		if err != nil {
			return nil, fmt.Errorf("mapping file: %w", err)
		}
		return m, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return osFile{File: f, size: fi.Size()}, nil
}

func closeSource(s Source) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
