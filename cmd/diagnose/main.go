// Diagnostic tool for analyzing TDMS files segment by segment
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	binpkg "github.com/robert-malhotra/go-tdms/internal/binary"
	"github.com/robert-malhotra/go-tdms/internal/leadin"
	"github.com/robert-malhotra/go-tdms/internal/metadata"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/diagnose/main.go <file.tdms>")
		os.Exit(1)
	}

	filename := os.Args[1]
	fmt.Printf("=== Analyzing %s ===\n\n", filename)

	f, err := os.Open(filename)
	if err != nil {
		fmt.Printf("ERROR: Failed to open file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("File size: %s\n\n", humanize.IBytes(uint64(fi.Size())))

	if err := dump(os.Stdout, f, fi.Size()); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func dump(w io.Writer, r io.ReaderAt, size int64) error {
	segs, scanErr := leadin.Scan(r, size)
	for _, seg := range segs {
		li, lay := seg.LeadIn, seg.Layout
		fmt.Fprintf(w, "Segment %d @ %d:\n", seg.Index, lay.Start)
		fmt.Fprintf(w, "  Tag: %q  Version: %d  ToC: %s\n", li.Tag[:], li.Version, li.Flags)
		fmt.Fprintf(w, "  Metadata: %s  Raw data: %s\n",
			humanize.IBytes(uint64(lay.MetadataLength())), humanize.IBytes(uint64(lay.RawDataLength())))
		if lay.UnknownLength {
			fmt.Fprintf(w, "  [UNKNOWN LENGTH - runs to end of file]\n")
		}
		if lay.Truncated {
			fmt.Fprintf(w, "  [TRUNCATED - declared end past end of file]\n")
		}

		if !li.Flags.Has(leadin.FlagMetaData) {
			fmt.Fprintf(w, "  (no metadata, previous object list reused)\n")
			continue
		}
		br := binpkg.NewReader(r, binpkg.Config{ByteOrder: li.ByteOrder(), Size: size}).
			At(seg.Metadata.Start).
			Limit(seg.Metadata.End)
		objs, err := metadata.Decode(br, li.Constants)
		for _, obj := range objs {
			dumpObject(w, obj)
		}
		if err != nil {
			fmt.Fprintf(w, "  ERROR decoding metadata: %v\n", err)
			return nil
		}
	}
	if scanErr != nil {
		fmt.Fprintf(w, "ERROR after %d segments: %v\n", len(segs), scanErr)
	}
	return nil
}

func dumpObject(w io.Writer, obj metadata.Object) {
	ix := obj.Index
	fmt.Fprintf(w, "  Object %q @ %d:\n", obj.Path, obj.Offset)
	switch ix.Kind {
	case metadata.Explicit:
		fmt.Fprintf(w, "    Index: %s %s x %d", ix.Kind, ix.DataType, ix.NumValues)
		if ix.DataType.IsString() {
			fmt.Fprintf(w, " (%s)", humanize.IBytes(ix.TotalSize))
		}
		fmt.Fprintln(w)
	case metadata.DAQmx:
		fmt.Fprintf(w, "    Index: %s x %d, digital=%v, widths=%v\n",
			ix.Kind, ix.NumValues, ix.DAQmx.Digital, ix.DAQmx.RawWidths)
		for _, s := range ix.DAQmx.Scalers {
			t, _ := metadata.ScalerDataType(s.DataType)
			fmt.Fprintf(w, "      Scaler: %s buffer=%d byte=%d bit=%d\n",
				t, s.BufferIndex, s.ByteOffset, s.BitOffset)
		}
	default:
		fmt.Fprintf(w, "    Index: %s\n", ix.Kind)
	}
	for _, p := range obj.Properties {
		fmt.Fprintf(w, "    Property %q (%s): %v\n", p.Name, p.Type, p.Value)
	}
}
