package leadin

import (
	"errors"
	"io"
)

// Region is a byte range [Start, End) of a source.
type Region struct {
	Start, End int64
}

// Len returns the region length.
func (r Region) Len() int64 {
	return r.End - r.Start
}

// Segment is one entry of the segment chain.
type Segment struct {
	// Index is the segment's position in the chain.
	Index int

	LeadIn *LeadIn

	// Layout holds the segment's ranges in the data file.
	Layout Layout

	// Metadata is where the metadata block can be read. It lies in the index
	// file for segments found by ScanIndexed.
	Metadata Region
}

// Scan walks the segment chain of a data or index file of size bytes.
//
// It skips from lead-in to lead-in without reading metadata. The chain ends
// at the end of the source, after a segment of unknown length, or after a
// segment cut short by the end of the file. On error the segments found so
// far are returned with it.
func Scan(r io.ReaderAt, size int64) ([]Segment, error) {
	var segs []Segment
	var pos int64
	for {
		li, err := Read(r, pos, size)
		if errors.Is(err, io.EOF) {
			return segs, nil
		}
		if err != nil {
			return segs, err
		}
		lay, err := li.Locate(pos, size)
		if err != nil {
			return segs, err
		}
		segs = append(segs, Segment{
			Index:    len(segs),
			LeadIn:   li,
			Layout:   lay,
			Metadata: Region{lay.MetadataStart, min(lay.MetadataEnd, size)},
		})
		if lay.UnknownLength || lay.Truncated {
			return segs, nil
		}
		if li.IsIndex() {
			pos = lay.MetadataEnd
		} else {
			pos = lay.End
		}
	}
}

// ScanIndexed walks an index file and its data file together. Metadata
// regions point into the index; layouts describe the data file.
//
// Each data lead-in is read and compared with its index counterpart, so an
// index that no longer matches its data file is reported as a
// [CorruptSegmentError].
func ScanIndexed(index io.ReaderAt, indexSize int64, data io.ReaderAt, dataSize int64) ([]Segment, error) {
	var segs []Segment
	var ipos, dpos int64
	for {
		ili, err := Read(index, ipos, indexSize)
		if errors.Is(err, io.EOF) {
			return segs, nil
		}
		if err != nil {
			return segs, err
		}
		if !ili.IsIndex() {
			return segs, &InvalidTagError{Tag: ili.Tag, Offset: ipos}
		}
		ilay, err := ili.Locate(ipos, indexSize)
		if err != nil {
			return segs, err
		}

		dli, err := Read(data, dpos, dataSize)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return segs, &CorruptSegmentError{Offset: ipos, Reason: "index lists a segment past the end of the data file"}
			}
			return segs, err
		}
		if dli.IsIndex() || dli.Flags != ili.Flags ||
			dli.NextSegmentOffset != ili.NextSegmentOffset || dli.RawDataOffset != ili.RawDataOffset {
			return segs, &CorruptSegmentError{Offset: dpos, Reason: "data segment does not match its index entry"}
		}
		dlay, err := dli.LocateData(dpos, dataSize)
		if err != nil {
			return segs, err
		}

		segs = append(segs, Segment{
			Index:    len(segs),
			LeadIn:   dli,
			Layout:   dlay,
			Metadata: Region{ilay.MetadataStart, ilay.End},
		})
		if dlay.UnknownLength || dlay.Truncated || ilay.Truncated {
			return segs, nil
		}
		ipos = ilay.End
		dpos = dlay.End
	}
}
