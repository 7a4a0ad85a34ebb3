package tdms

import (
	"github.com/sirupsen/logrus"
)

// Option configures how a file is opened.
type Option func(*options)

type options struct {
	logger    logrus.FieldLogger
	cacheSize int
	indexPath string
	index     Source
	mmap      bool
}

func defaultOptions() *options {
	return &options{
		logger: logrus.StandardLogger(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used while scanning. Segment summaries are
// logged at debug level and recoverable problems at warn level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCacheSize keeps the decoded bytes of up to n spans in memory.
// Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.cacheSize = n
		}
	}
}

// WithIndexFile reads segment metadata from a ".tdms_index" file
// instead of the data file. It applies to Open.
func WithIndexFile(path string) Option {
	return func(o *options) {
		o.indexPath = path
	}
}

// WithIndex reads segment metadata from an already opened index source.
func WithIndex(src Source) Option {
	return func(o *options) {
		o.index = src
	}
}

// WithMmap maps local files into memory instead of reading them with
// positioned reads. It applies to Open.
func WithMmap(enabled bool) Option {
	return func(o *options) {
		o.mmap = enabled
	}
}
