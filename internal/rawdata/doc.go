// Package rawdata locates channel samples inside segment raw data blocks.
//
// # Chunks
//
// A segment's raw block is a whole number of chunks. Each chunk carries the
// values of every data-carrying object in object list order, so the chunk
// size is the sum of the objects' byte sizes:
//
//	fixed width   count * element size
//	string        total size (offset table included)
//	DAQmx         count * raw buffer width, summed over buffers
//
// # Arrangements
//
// Contiguous chunks store each channel's values back to back:
//
//	| a0 a1 a2 | b0 b1 b2 | a3 a4 a5 | b3 b4 b5 |
//
// Interleaved chunks store one value of every channel per row; only fixed
// width channels of equal count may be interleaved:
//
//	| a0 b0 a1 b1 a2 b2 |
//
// DAQmx chunks hold one block per raw buffer, each a sequence of rows of the
// buffer's width. A channel reads its sample at its scaler's byte offset in
// every row of its buffer; digital line scalers select one bit of it.
//
// String channel blocks start with one uint32 end offset per value, relative
// to the end of the table, followed by the concatenated UTF-8 bytes.
package rawdata
