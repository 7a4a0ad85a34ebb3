package leadin

import "fmt"

// InvalidTagError is returned when a segment does not start with a TDMS tag.
type InvalidTagError struct {
	Tag    [4]byte
	Offset int64
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid segment tag %q at offset %d", e.Tag[:], e.Offset)
}

// UnsupportedVersionError is returned for lead-ins with an unknown version.
// Offset is -1 when the version did not come from a file.
type UnsupportedVersionError struct {
	Version uint32
	Offset  int64
}

func (e *UnsupportedVersionError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("unsupported TDMS version %d", e.Version)
	}
	return fmt.Sprintf("unsupported TDMS version %d at offset %d", e.Version, e.Offset)
}

// CorruptSegmentError is returned when a lead-in's lengths are inconsistent.
type CorruptSegmentError struct {
	Offset int64
	Reason string
}

func (e *CorruptSegmentError) Error() string {
	return fmt.Sprintf("corrupt segment at offset %d: %s", e.Offset, e.Reason)
}
