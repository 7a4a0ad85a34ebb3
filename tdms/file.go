package tdms

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-tdms/internal/leadin"
)

// File is an indexed TDMS file. The index is built once by Open and never
// changes; channel values are read lazily from the source.
type File struct {
	src    Source
	owned  []Source // closed by Close
	log    logrus.FieldLogger
	cache  *spanCache
	closed atomic.Bool

	props    *Properties
	groups   []*Group
	groupIdx map[string]*Group

	segments []SegmentInfo
	warnings []error
	err      error
}

// SegmentInfo summarizes one indexed segment.
type SegmentInfo struct {
	Index  int
	Offset int64

	// ToC is the raw table of contents mask.
	ToC           uint32
	HasMetadata   bool
	HasRawData    bool
	NewObjectList bool
	Interleaved   bool
	BigEndian     bool
	DAQmx         bool

	Version        uint32
	MetadataLength int64
	RawDataLength  int64

	// Objects is the number of metadata records; Chunks the number of
	// complete raw data chunks.
	Objects int
	Chunks  uint64

	UnknownLength bool
	Truncated     bool
}

func newSegmentInfo(seg leadin.Segment) SegmentInfo {
	f := seg.LeadIn.Flags
	return SegmentInfo{
		Index:          seg.Index,
		Offset:         seg.Layout.Start,
		ToC:            uint32(f),
		HasMetadata:    f.Has(leadin.FlagMetaData),
		HasRawData:     f.Has(leadin.FlagRawData),
		NewObjectList:  f.Has(leadin.FlagNewObjList),
		Interleaved:    f.Has(leadin.FlagInterleavedData),
		BigEndian:      f.Has(leadin.FlagBigEndian),
		DAQmx:          f.Has(leadin.FlagDAQmxRawData),
		Version:        seg.LeadIn.Version,
		MetadataLength: seg.Layout.MetadataLength(),
		RawDataLength:  seg.Layout.RawDataLength(),
		UnknownLength:  seg.Layout.UnknownLength,
		Truncated:      seg.Layout.Truncated,
	}
}

// Open opens and indexes the TDMS file at path.
//
// A file that is damaged part way through is still returned, holding every
// segment before the damage, together with the error that stopped the scan.
// The returned *File is nil only when nothing could be indexed.
func Open(path string, opts ...Option) (*File, error) {
	o := applyOptions(opts)
	o.logger = o.logger.WithField("file", path)

	src, err := openLocal(path, o.mmap)
	if err != nil {
		return nil, err
	}
	owned := []Source{src}
	if o.indexPath != "" {
		idx, err := openLocal(o.indexPath, o.mmap)
		if err != nil {
			closeSource(src)
			return nil, fmt.Errorf("opening index: %w", err)
		}
		o.index = idx
		owned = append(owned, idx)
	}

	f, err := open(src, o)
	if f == nil {
		for _, s := range owned {
			closeSource(s)
		}
		return nil, err
	}
	f.owned = owned
	return f, err
}

// OpenReader indexes a TDMS file of size bytes read through r.
// The caller keeps ownership of r.
func OpenReader(r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	return OpenSource(NewSource(r, size), opts...)
}

// OpenBytes indexes an in-memory TDMS file.
func OpenBytes(data []byte, opts ...Option) (*File, error) {
	return OpenSource(bytes.NewReader(data), opts...)
}

// OpenSource indexes a TDMS file read from src. The caller keeps ownership
// of src.
func OpenSource(src Source, opts ...Option) (*File, error) {
	return open(src, applyOptions(opts))
}

func open(src Source, o *options) (*File, error) {
	f := &File{
		src:      src,
		log:      o.logger,
		cache:    newSpanCache(o.cacheSize),
		props:    newProperties(),
		groupIdx: make(map[string]*Group),
	}

	err := f.scan(o)
	if err != nil && len(f.segments) == 0 {
		var ite *InvalidTagError
		if errors.As(err, &ite) && ite.Offset == 0 {
			return nil, fmt.Errorf("%w: %w", ErrNotTDMS, err)
		}
		return nil, err
	}
	f.err = err
	return f, err
}

// Close releases the sources opened by Open. Reading channel values after
// Close fails with ErrClosed.
func (f *File) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	var err error
	for _, s := range f.owned {
		if cerr := closeSource(s); cerr != nil && err == nil {
			err = cerr
		}
	}
	f.owned = nil
	return err
}

// Properties returns the file's root properties.
func (f *File) Properties() *Properties {
	return f.props
}

// Groups returns the groups in the order they first appeared.
func (f *File) Groups() []*Group {
	return append([]*Group(nil), f.groups...)
}

// Group returns the named group.
func (f *File) Group(name string) (*Group, error) {
	g, ok := f.groupIdx[name]
	if !ok {
		return nil, fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	return g, nil
}

// Channel returns a channel by group and channel name.
func (f *File) Channel(group, channel string) (*Channel, error) {
	g, err := f.Group(group)
	if err != nil {
		return nil, err
	}
	return g.Channel(channel)
}

// Object resolves an object path to the *File, a *Group or a *Channel.
func (f *File) Object(path string) (any, error) {
	names, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	switch len(names) {
	case 0:
		return f, nil
	case 1:
		g, err := f.Group(names[0])
		if err != nil {
			return nil, err
		}
		return g, nil
	case 2:
		ch, err := f.Channel(names[0], names[1])
		if err != nil {
			return nil, err
		}
		return ch, nil
	default:
		return nil, &InvalidPathError{Path: path, Offset: -1, Reason: "more than two components"}
	}
}

// Segments returns a summary of every indexed segment.
func (f *File) Segments() []SegmentInfo {
	return append([]SegmentInfo(nil), f.segments...)
}

// Warnings returns the recoverable problems found while scanning: unknown
// objects, invalid paths and raw data layout mismatches.
func (f *File) Warnings() []error {
	return append([]error(nil), f.warnings...)
}

// Err returns the error that stopped the scan, or nil if the whole file
// was indexed.
func (f *File) Err() error {
	return f.err
}

func (f *File) addGroup(name string, implicit bool) *Group {
	g := &Group{
		file:       f,
		name:       name,
		path:       GroupPath(name),
		props:      newProperties(),
		channelIdx: make(map[string]*Channel),
		implicit:   implicit,
	}
	f.groups = append(f.groups, g)
	f.groupIdx[name] = g
	return g
}
