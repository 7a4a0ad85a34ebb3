// Package dtype provides TDMS data type codes and their conversion to Go values.
//
// TDMS metadata is self-describing: every property value and every raw data
// index is preceded by a 32-bit type code. This package maps those codes to
// fixed sizes and Go types, decodes single property values from a
// [binary.Reader], and converts packed raw sample bytes into Go slices.
//
// # Type Mapping
//
//	TDMS type               | Code       | Size | Go Type
//	------------------------|------------|------|------------------
//	I8 / I16 / I32 / I64    | 1-4        | 1-8  | int8 .. int64
//	U8 / U16 / U32 / U64    | 5-8        | 1-8  | uint8 .. uint64
//	SingleFloat (+unit)     | 9, 0x19    | 4    | float32
//	DoubleFloat (+unit)     | 10, 0x1A   | 8    | float64
//	String                  | 0x20       | var  | string
//	Boolean                 | 0x21       | 1    | bool
//	TimeStamp               | 0x44       | 16   | [Timestamp]
//	ComplexSingleFloat      | 0x08000C   | 8    | complex64
//	ComplexDoubleFloat      | 0x10000D   | 16   | complex128
//
// Void, extended precision floats, fixed point and DAQmx raw data have no
// Go representation here. Decoding them fails with [UnsupportedTypeError],
// because a misread width would corrupt every following field in the segment.
//
// # Timestamps
//
// A timestamp is a signed count of seconds since 1904-01-01 00:00 UTC plus an
// unsigned 64-bit fraction of a second in units of 2^-64 s. Little-endian
// segments store the fraction first; big-endian segments store the seconds
// first.
//
// # Key Functions
//
//   - [ReadValue]: Decodes one property value of a given type
//   - [DecodeElement]: Decodes one fixed-width element from a byte slice
//   - [Convert]: Converts packed elements into a caller-provided slice
//   - [GoType]: Returns the reflect.Type used for a data type
package dtype
