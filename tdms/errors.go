package tdms

import (
	"errors"
	"fmt"

	binpkg "github.com/robert-malhotra/go-tdms/internal/binary"
	"github.com/robert-malhotra/go-tdms/internal/dtype"
	"github.com/robert-malhotra/go-tdms/internal/leadin"
	"github.com/robert-malhotra/go-tdms/internal/metadata"
	"github.com/robert-malhotra/go-tdms/internal/rawdata"
)

// Common errors
var (
	ErrNotTDMS  = errors.New("not a TDMS file")
	ErrNotFound = errors.New("object not found")
	ErrClosed   = errors.New("file is closed")
)

// Errors raised while scanning. All of them carry the byte offset at which
// the problem was found.
type (
	// TruncatedFileError reports a read past the end of the file.
	TruncatedFileError = binpkg.TruncatedError

	// TruncatedMetadataError reports an object record running past the end
	// of its metadata block.
	TruncatedMetadataError = metadata.TruncatedError

	// InvalidTagError reports a segment not starting with "TDSm" or "TDSh".
	InvalidTagError = leadin.InvalidTagError

	// UnsupportedVersionError reports a lead-in version other than 4712 or 4713.
	UnsupportedVersionError = leadin.UnsupportedVersionError

	// CorruptSegmentError reports inconsistent lengths in a segment.
	CorruptSegmentError = leadin.CorruptSegmentError

	// UnsupportedTypeError reports a type code that cannot be decoded.
	UnsupportedTypeError = dtype.UnsupportedTypeError

	// SegmentLayoutMismatchError reports raw data that does not match the
	// segment's object list. The segment's spans are marked unavailable.
	SegmentLayoutMismatchError = rawdata.LayoutMismatchError
)

// UnknownObjectError is recorded when a channel's group was never declared.
// The channel is attached to an implicitly created group.
type UnknownObjectError struct {
	Path    string
	Group   string
	Segment int
	Offset  int64
}

func (e *UnknownObjectError) Error() string {
	return fmt.Sprintf("segment %d at offset %d: channel %s declared before its group %q", e.Segment, e.Offset, e.Path, e.Group)
}

// InvalidPathError reports an object path that does not follow the
// "/'group'/'channel'" grammar. Offset is -1 for paths given by callers.
type InvalidPathError struct {
	Path   string
	Offset int64
	Reason string
}

func (e *InvalidPathError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("invalid object path %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid object path %q at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// DataUnavailableError is returned when a read covers a segment whose raw
// data layout could not be trusted.
type DataUnavailableError struct {
	Path    string
	Segment int
	Err     error
}

func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("channel %s: data of segment %d unavailable: %v", e.Path, e.Segment, e.Err)
	}
	return fmt.Sprintf("channel %s: data of segment %d unavailable", e.Path, e.Segment)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}
