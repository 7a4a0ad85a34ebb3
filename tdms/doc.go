// Package tdms reads NI TDMS measurement files.
//
// A TDMS file is a chain of segments, each a lead-in, an optional metadata
// block and an optional raw data block. Metadata describes a three level
// hierarchy: the file, its groups and their channels, each carrying typed
// properties. Open walks the chain once, builds that hierarchy and records
// where every channel's values live, without reading any raw data. Values
// are read on demand through the Channel methods.
//
// # Key Types and Functions
//
//   - [Open], [OpenReader], [OpenBytes], [OpenSource]: index a file
//   - [File]: the root object, with groups, properties and scan diagnostics
//   - [Group]: a named collection of channels
//   - [Channel]: a typed value sequence spread over one or more segments
//   - [Properties]: ordered name/value pairs attached to any object
//   - [Walk], [File.WalkProperties]: traversal helpers
//   - [ScanFiles]: open many files concurrently
//
// # Example
//
//	f, err := tdms.Open("run.tdms")
//	if err != nil && f == nil {
//	    return err
//	}
//	defer f.Close()
//
//	for _, g := range f.Groups() {
//	    fmt.Println(g.Name())
//	    for _, ch := range g.Channels() {
//	        fmt.Println("    "+ch.Name(), ch.Len())
//	    }
//	}
//
//	ch, err := f.Channel("Measurements", "Voltage")
//	if err != nil {
//	    return err
//	}
//	volts, err := ch.ReadFloat64()
//
// # Damaged Files
//
// Acquisition software appends segments while it runs, so files cut short
// by a crash are common. Open indexes every segment up to the first one it
// cannot trust and returns the partial file together with the error that
// stopped the scan; [File.Err] keeps it. Segments whose raw data does not
// fit their object list are indexed with unavailable spans instead, and the
// problem is listed by [File.Warnings].
//
// # Errors
//
// Scan errors are typed and carry the byte offset of the problem:
// [TruncatedFileError], [TruncatedMetadataError], [InvalidTagError],
// [UnsupportedVersionError], [CorruptSegmentError], [UnsupportedTypeError].
// Warnings are [UnknownObjectError], [InvalidPathError] and
// [SegmentLayoutMismatchError]. Reads covering unavailable data fail with
// [DataUnavailableError].
package tdms
