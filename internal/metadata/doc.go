// Package metadata decodes the metadata block of a TDMS segment.
//
// # Block Layout
//
// All integers use the byte order of the segment.
//
//	uint32              object count
//	per object:
//	  string            object path (uint32 length + UTF-8)
//	  uint32            raw data index header (see below)
//	  ...               raw data index body
//	  uint32            property count
//	  per property:
//	    string          name
//	    uint32          type code
//	    ...             value
//
// The raw data index header selects one of four forms:
//
//	0xFFFFFFFF   no raw data for this object in the segment
//	0x00000000   same layout as the object's previous segment
//	0x69120000   DAQmx format changing scaler index
//	0x69130000   DAQmx digital line scaler index
//	other        explicit index; the value is its length including itself
//
// An explicit index holds data type (uint32), dimension (uint32, always 1),
// number of values (uint64) and, for strings only, the total byte size of the
// values (uint64). Readers skip to the declared end so writers may append
// fields.
//
// A DAQmx index holds data type (0xFFFFFFFF), dimension, number of values
// (uint64), a vector of scalers and a vector of raw buffer widths.
//
// # Errors
//
// Reads are bounded by the metadata block. Running off its end yields a
// [TruncatedError]; an undecodable type code yields a
// [dtype.UnsupportedTypeError]. Objects decoded before the failure are returned
// with the error.
package metadata
