package leadin

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	binpkg "github.com/robert-malhotra/go-tdms/internal/binary"
)

// Size is the length of a segment lead-in in bytes.
const Size = 28

// Segment tags.
var (
	TagData  = [4]byte{'T', 'D', 'S', 'm'}
	TagIndex = [4]byte{'T', 'D', 'S', 'h'}
)

// Supported format versions.
const (
	Version4712 uint32 = 4712
	Version4713 uint32 = 4713
)

// Flags is the table of contents bitmask of a lead-in.
type Flags uint32

// Table of contents bits.
const (
	FlagMetaData        Flags = 1 << 1
	FlagNewObjList      Flags = 1 << 2
	FlagRawData         Flags = 1 << 3
	FlagInterleavedData Flags = 1 << 5
	FlagBigEndian       Flags = 1 << 6
	FlagDAQmxRawData    Flags = 1 << 7
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagMetaData, "MetaData"},
	{FlagNewObjList, "NewObjList"},
	{FlagRawData, "RawData"},
	{FlagInterleavedData, "InterleavedData"},
	{FlagBigEndian, "BigEndian"},
	{FlagDAQmxRawData, "DAQmxRawData"},
}

// Has reports whether all bits of x are set.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "|")
}

// Constants holds the sentinel values a format version uses.
type Constants struct {
	UnknownLength       uint64 // next segment offset of an unfinished segment
	NoRawData           uint32 // raw data index: object has no data in this segment
	MatchesPrevious     uint32 // raw data index: same layout as the previous segment
	DAQmxFormatChanging uint32 // raw data index: DAQmx format changing scaler
	DAQmxDigitalLine    uint32 // raw data index: DAQmx digital line scaler
}

var v47xx = Constants{
	UnknownLength:       math.MaxUint64,
	NoRawData:           0xFFFFFFFF,
	MatchesPrevious:     0x00000000,
	DAQmxFormatChanging: 0x69120000,
	DAQmxDigitalLine:    0x69130000,
}

// ConstantsFor returns the sentinel values for version. Unknown versions
// are rejected rather than guessed at.
func ConstantsFor(version uint32) (Constants, error) {
	switch version {
	case Version4712, Version4713:
		return v47xx, nil
	default:
		return Constants{}, &UnsupportedVersionError{Version: version, Offset: -1}
	}
}

// LeadIn is a parsed segment lead-in.
type LeadIn struct {
	// Offset is the file position of the tag.
	Offset int64

	Tag     [4]byte
	Flags   Flags
	Version uint32

	// NextSegmentOffset is the declared segment length after the lead-in.
	NextSegmentOffset uint64

	// RawDataOffset is the metadata length: raw data starts this many bytes
	// after the lead-in.
	RawDataOffset uint64

	Constants Constants
}

// IsIndex reports whether the lead-in comes from an index file.
func (l *LeadIn) IsIndex() bool {
	return l.Tag == TagIndex
}

// ByteOrder returns the byte order of the segment's metadata and raw data.
func (l *LeadIn) ByteOrder() binary.ByteOrder {
	if l.Flags.Has(FlagBigEndian) {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// UnknownLength reports whether the writer left the segment length unset.
func (l *LeadIn) UnknownLength() bool {
	return l.NextSegmentOffset == l.Constants.UnknownLength
}

// Read parses the lead-in at offset of a source holding size bytes.
// At exactly the end of the source it returns io.EOF.
func Read(r io.ReaderAt, offset, size int64) (*LeadIn, error) {
	if offset == size {
		return nil, io.EOF
	}
	br := binpkg.NewReader(r, binpkg.DefaultConfig(size)).At(offset)
	buf, err := br.ReadBytes(Size)
	if err != nil {
		return nil, err
	}

	l := &LeadIn{Offset: offset}
	copy(l.Tag[:], buf[0:4])
	if l.Tag != TagData && l.Tag != TagIndex {
		return nil, &InvalidTagError{Tag: l.Tag, Offset: offset}
	}

	l.Flags = Flags(binary.LittleEndian.Uint32(buf[4:8]))
	order := l.ByteOrder()
	l.Version = order.Uint32(buf[8:12])
	l.NextSegmentOffset = order.Uint64(buf[12:20])
	l.RawDataOffset = order.Uint64(buf[20:28])

	l.Constants, err = ConstantsFor(l.Version)
	if err != nil {
		return nil, &UnsupportedVersionError{Version: l.Version, Offset: offset + 8}
	}
	return l, nil
}

// Layout holds the absolute byte ranges of one segment.
type Layout struct {
	Start         int64 // lead-in position
	MetadataStart int64
	MetadataEnd   int64
	RawDataStart  int64
	RawDataEnd    int64
	End           int64 // start of the next segment

	// UnknownLength is set when the segment extends to the end of the file.
	UnknownLength bool

	// Truncated is set when the declared length ran past the end of the file
	// and End was clamped to it.
	Truncated bool
}

// MetadataLength returns the declared metadata length.
func (l Layout) MetadataLength() int64 {
	return l.MetadataEnd - l.MetadataStart
}

// RawDataLength returns the number of raw data bytes available.
func (l Layout) RawDataLength() int64 {
	if l.RawDataEnd < l.RawDataStart {
		return 0
	}
	return l.RawDataEnd - l.RawDataStart
}

// Locate computes the segment layout for a lead-in found at start in a
// source of size bytes. Index lead-ins have no raw data.
func (l *LeadIn) Locate(start, size int64) (Layout, error) {
	if l.IsIndex() {
		return l.locateIndex(start, size)
	}
	return l.LocateData(start, size)
}

// LocateData computes the layout the segment has in a data file, even when
// the lead-in was read from an index file.
func (l *LeadIn) LocateData(start, size int64) (Layout, error) {
	metaStart := start + Size
	if l.RawDataOffset > uint64(math.MaxInt64-metaStart) {
		return Layout{}, l.corrupt(start, "raw data offset %d overflows", l.RawDataOffset)
	}
	lay := Layout{
		Start:         start,
		MetadataStart: metaStart,
		MetadataEnd:   metaStart + int64(l.RawDataOffset),
	}
	lay.RawDataStart = lay.MetadataEnd

	if l.UnknownLength() {
		lay.UnknownLength = true
		lay.End = size
	} else {
		if l.NextSegmentOffset > uint64(math.MaxInt64-metaStart) {
			return Layout{}, l.corrupt(start, "next segment offset %d overflows", l.NextSegmentOffset)
		}
		if l.RawDataOffset > l.NextSegmentOffset {
			return Layout{}, l.corrupt(start, "metadata length %d exceeds segment length %d",
				l.RawDataOffset, l.NextSegmentOffset)
		}
		lay.End = metaStart + int64(l.NextSegmentOffset)
	}

	if lay.End > size {
		lay.End = size
		lay.Truncated = !lay.UnknownLength
	}
	lay.RawDataEnd = lay.End
	if !l.Flags.Has(FlagRawData) {
		lay.RawDataEnd = lay.RawDataStart
	}
	return lay, nil
}

func (l *LeadIn) locateIndex(start, size int64) (Layout, error) {
	metaStart := start + Size
	if l.RawDataOffset > uint64(math.MaxInt64-metaStart) {
		return Layout{}, l.corrupt(start, "raw data offset %d overflows", l.RawDataOffset)
	}
	if !l.UnknownLength() && l.RawDataOffset > l.NextSegmentOffset {
		return Layout{}, l.corrupt(start, "metadata length %d exceeds segment length %d",
			l.RawDataOffset, l.NextSegmentOffset)
	}
	lay := Layout{
		Start:         start,
		MetadataStart: metaStart,
		MetadataEnd:   metaStart + int64(l.RawDataOffset),
	}
	lay.RawDataStart = lay.MetadataEnd
	lay.RawDataEnd = lay.MetadataEnd
	lay.End = lay.MetadataEnd
	if lay.End > size {
		lay.End = size
		lay.Truncated = true
	}
	return lay, nil
}

func (l *LeadIn) corrupt(start int64, format string, args ...any) error {
	return &CorruptSegmentError{Offset: start, Reason: fmt.Sprintf(format, args...)}
}
