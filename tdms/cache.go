package tdms

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/robert-malhotra/go-tdms/internal/rawdata"
)

type spanKey struct {
	channel uint64
	segment int
	offset  int64
}

// maxCachedSpan is the largest span, in packed bytes, kept by the cache.
// Larger spans are read piecewise on every call.
const maxCachedSpan = 16 << 20

// spanCache keeps the packed bytes of recently read fixed-width spans.
type spanCache struct {
	lru     *lru.Cache[spanKey, []byte]
	maxSpan uint64
}

func newSpanCache(size int) *spanCache {
	if size <= 0 {
		return nil
	}
	c, err := lru.New[spanKey, []byte](size)
	if err != nil {
		return nil
	}
	return &spanCache{lru: c, maxSpan: maxCachedSpan}
}

// gather returns n packed values of s starting at start, going through the
// span cache when one is configured.
func (f *File) gather(c *Channel, s rawdata.Span, start, n uint64) ([]byte, error) {
	size := uint64(s.Type.Size())
	if f.cache == nil || s.Len()*size > f.cache.maxSpan {
		return rawdata.Gather(f.src, s, start, n)
	}

	key := spanKey{channel: c.id, segment: s.Segment, offset: s.Offset}
	full, ok := f.cache.lru.Get(key)
	if !ok {
		var err error
		full, err = rawdata.Gather(f.src, s, 0, s.Len())
		if err != nil {
			return nil, err
		}
		f.cache.lru.Add(key, full)
	}
	return full[start*size : (start+n)*size], nil
}

// CacheLen returns the number of spans held in the cache.
func (f *File) CacheLen() int {
	if f.cache == nil {
		return 0
	}
	return f.cache.lru.Len()
}
