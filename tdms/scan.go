package tdms

// Scan Strategy
//
// Segments are indexed in file order. Each segment's metadata updates a
// running object list:
//
//   - no metadata: the previous list is reused as is
//   - new object list: the list starts empty
//   - otherwise: known objects are updated in place, new ones appended
//
// Objects in the list that carry data in the segment, in list order, form
// the segment's raw data layout. A metadata block that fails to decode stops
// the scan: the records read before the failure are applied, the rest of the
// segment and its raw data are not.

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	binpkg "github.com/robert-malhotra/go-tdms/internal/binary"
	"github.com/robert-malhotra/go-tdms/internal/leadin"
	"github.com/robert-malhotra/go-tdms/internal/metadata"
	"github.com/robert-malhotra/go-tdms/internal/rawdata"
)

// listEntry is an object of the running object list.
type listEntry struct {
	path    string
	channel *Channel // nil for the root, groups and unattached records
	layout  metadata.RawIndex
	hasData bool
	missing bool // reuses a layout that was never declared
}

type scanner struct {
	f    *File
	meta Source
	log  logrus.FieldLogger

	list    []*listEntry
	listIdx map[string]*listEntry

	// last layout declared per object path, across object lists
	layouts map[string]metadata.RawIndex
	warned  map[string]bool

	// channels of the current segment whose group was not declared yet
	orphans []*UnknownObjectError
}

func (f *File) scan(o *options) error {
	var (
		segs     []leadin.Segment
		chainErr error
		meta     = f.src
	)
	if o.index != nil {
		meta = o.index
		segs, chainErr = leadin.ScanIndexed(o.index, o.index.Size(), f.src, f.src.Size())
	} else {
		segs, chainErr = leadin.Scan(f.src, f.src.Size())
	}

	s := &scanner{
		f:       f,
		meta:    meta,
		log:     f.log,
		listIdx: make(map[string]*listEntry),
		layouts: make(map[string]metadata.RawIndex),
		warned:  make(map[string]bool),
	}
	for _, seg := range segs {
		if err := s.segment(seg); err != nil {
			return err
		}
		if seg.Layout.Truncated {
			err := &binpkg.TruncatedError{
				Offset: seg.Layout.Start,
				Want:   leadin.Size + int64(seg.LeadIn.NextSegmentOffset),
				Have:   seg.Layout.End - seg.Layout.Start,
			}
			s.log.WithFields(logrus.Fields{
				"segment": seg.Index,
				"offset":  seg.Layout.Start,
			}).Warn("segment extends past end of file")
			return fmt.Errorf("segment %d: %w", seg.Index, err)
		}
	}
	if chainErr != nil {
		return fmt.Errorf("reading lead-in: %w", chainErr)
	}
	return nil
}

func (s *scanner) segment(seg leadin.Segment) error {
	li := seg.LeadIn
	log := s.log.WithFields(logrus.Fields{
		"segment": seg.Index,
		"offset":  seg.Layout.Start,
	})
	info := newSegmentInfo(seg)

	if li.Flags.Has(leadin.FlagMetaData) {
		r := binpkg.NewReader(s.meta, binpkg.Config{ByteOrder: li.ByteOrder(), Size: s.meta.Size()}).
			At(seg.Metadata.Start).
			Limit(seg.Metadata.End)
		objs, err := metadata.Decode(r, li.Constants)
		if err != nil {
			// Records decoded before the failure keep their objects and
			// properties; their layouts and the raw data are dropped.
			for _, obj := range objs {
				s.resolve(seg, obj)
			}
			s.reportOrphans()
			log.WithError(err).WithField("objects", len(objs)).Warn("dropping rest of segment with unreadable metadata")
			return fmt.Errorf("segment %d: reading metadata: %w", seg.Index, err)
		}

		if li.Flags.Has(leadin.FlagNewObjList) {
			s.list = s.list[:0]
			clear(s.listIdx)
		}
		for _, obj := range objs {
			s.apply(seg, obj)
		}
		s.reportOrphans()
		info.Objects = len(objs)
	}

	if li.Flags.Has(leadin.FlagRawData) {
		info.Chunks = s.locate(seg, log)
	}

	s.f.segments = append(s.f.segments, info)
	log.WithFields(logrus.Fields{
		"toc":     li.Flags.String(),
		"objects": info.Objects,
		"chunks":  info.Chunks,
	}).Debug("segment indexed")
	return nil
}

// apply merges one metadata record into the tree and the object list.
func (s *scanner) apply(seg leadin.Segment, obj metadata.Object) {
	e, ok := s.listIdx[obj.Path]
	if !ok {
		e = &listEntry{path: obj.Path}
		s.list = append(s.list, e)
		s.listIdx[obj.Path] = e
	}

	ch := s.resolve(seg, obj)
	e.channel = ch

	switch obj.Index.Kind {
	case metadata.Explicit, metadata.DAQmx:
		e.layout, e.hasData, e.missing = obj.Index, true, false
		s.layouts[obj.Path] = obj.Index
	case metadata.MatchesPrevious:
		prev, ok := s.layouts[obj.Path]
		e.layout, e.hasData, e.missing = prev, true, !ok
	case metadata.NoData:
		e.hasData, e.missing = false, false
	}
	if ch != nil && e.hasData && !e.missing {
		ch.dataType = rawdata.ValueType(e.layout)
	}
}

// resolve finds or creates the node a record describes, merges the record's
// properties into it and returns the channel for channel records.
func (s *scanner) resolve(seg leadin.Segment, obj metadata.Object) *Channel {
	props, ch := s.node(seg, obj)
	if props != nil {
		for _, p := range obj.Properties {
			props.set(Property(p))
		}
	}
	return ch
}

func (s *scanner) node(seg leadin.Segment, obj metadata.Object) (*Properties, *Channel) {
	names, err := ParsePath(obj.Path)
	if err != nil {
		var ipe *InvalidPathError
		if errors.As(err, &ipe) {
			ipe.Offset = obj.Offset
		}
		s.warnOnce(obj.Path, err, "invalid object path")
		return nil, nil
	}

	switch len(names) {
	case 0:
		return s.f.props, nil
	case 1:
		g, ok := s.f.groupIdx[names[0]]
		if !ok {
			g = s.f.addGroup(names[0], false)
		}
		g.implicit = false
		return g.props, nil
	case 2:
		g, ok := s.f.groupIdx[names[0]]
		if !ok {
			g = s.f.addGroup(names[0], true)
			s.orphans = append(s.orphans, &UnknownObjectError{
				Path:    obj.Path,
				Group:   names[0],
				Segment: seg.Index,
				Offset:  obj.Offset,
			})
		}
		ch, ok := g.channelIdx[names[1]]
		if !ok {
			ch = g.addChannel(names[1])
		}
		return ch.props, ch
	default:
		s.warnOnce(obj.Path, &InvalidPathError{
			Path:   obj.Path,
			Offset: obj.Offset,
			Reason: fmt.Sprintf("%d components, want at most 2", len(names)),
		}, "invalid object path")
		return nil, nil
	}
}

// locate computes the segment's spans and attaches them to their channels.
// It returns the number of complete chunks.
func (s *scanner) locate(seg leadin.Segment, log logrus.FieldLogger) uint64 {
	var (
		entries []rawdata.Entry
		owners  []*listEntry
		missing string
	)
	for _, e := range s.list {
		if !e.hasData {
			continue
		}
		entries = append(entries, rawdata.Entry{Path: e.path, Index: e.layout})
		owners = append(owners, e)
		if e.missing && missing == "" {
			missing = e.path
		}
	}

	var (
		spans []rawdata.Span
		err   error
	)
	if missing != "" {
		err = &rawdata.LayoutMismatchError{
			Segment: seg.Index,
			Offset:  seg.Layout.Start,
			Reason:  fmt.Sprintf("object %q reuses a layout it never declared", missing),
		}
		spans = rawdata.Unavailable(seg, entries, err)
	} else {
		spans, err = rawdata.Locate(seg, entries)
	}
	if err != nil {
		s.f.warnings = append(s.f.warnings, err)
		log.WithError(err).Warn("raw data unavailable")
	}

	var chunks uint64
	for i, sp := range spans {
		chunks = sp.Chunks
		ch := owners[i].channel
		if ch == nil || (!sp.Unavailable && sp.Len() == 0) {
			continue
		}
		ch.addSpan(sp)
	}
	return chunks
}

// reportOrphans warns about the implicit groups of the current segment whose
// own record never followed.
func (s *scanner) reportOrphans() {
	for _, e := range s.orphans {
		if g := s.f.groupIdx[e.Group]; g != nil && g.implicit {
			s.warnOnce(e.Path, e, "channel without group, creating it")
		}
	}
	s.orphans = s.orphans[:0]
}

func (s *scanner) warnOnce(path string, err error, msg string) {
	if s.warned[path] {
		return
	}
	s.warned[path] = true
	s.f.warnings = append(s.f.warnings, err)
	s.log.WithField("path", path).WithError(err).Warn(msg)
}
