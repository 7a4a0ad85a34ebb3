// Package leadin parses TDMS segment lead-ins and walks the segment chain.
//
// A TDMS file is a sequence of segments written back to back, often appended
// incrementally by a long running acquisition. Each segment starts with a
// fixed 28-byte lead-in describing what follows it.
//
// # Lead-in Layout
//
//	Offset  Size  Description
//	0       4     Tag: "TDSm" (data file) or "TDSh" (index file)
//	4       4     Table of contents mask (always little-endian)
//	8       4     Version number (4712 or 4713)
//	12      8     Next segment offset, relative to the end of the lead-in
//	20      8     Raw data offset (= metadata length), relative to the end of the lead-in
//
// Fields after the ToC mask use the byte order declared by the mask's
// kTocBigEndian bit. A next segment offset of 0xFFFFFFFFFFFFFFFF means the
// writer never finalized the segment; it extends to the end of the file and
// must be the last one.
//
// # Index Files
//
// A ".tdms_index" file repeats every lead-in and metadata block of its data
// file under the "TDSh" tag, without raw data. [ScanIndexed] walks both chains
// together so metadata can be read from the small index while raw data
// positions point into the data file.
//
// # Errors
//
//   - [InvalidTagError]: the four tag bytes do not match
//   - [UnsupportedVersionError]: version is not one this package understands
//   - [CorruptSegmentError]: lengths are inconsistent or overflow
//
// A lead-in cut short by the end of the file is reported as a
// [binary.TruncatedError]. A segment whose declared length runs past the end
// of the file is clamped and flagged [Layout.Truncated].
package leadin
