package loader

import (
	"github.com/sirupsen/logrus"

	"github.com/xreader-go/xreader/xmlparser"
)

// defaultCacheSize is the number of parsed documents a Loader keeps
// around, keyed by path and mtime, before the LRU evicts the oldest.
const defaultCacheSize = 32

// Options configures a Loader. The zero value is never used directly;
// New always starts from defaultOptions and applies Option functions on
// top of it, in the style of the Opt func(*Arena) constructor pattern
// this repository's teacher uses for its own storage backend.
type Options struct {
	flags           xmlparser.Flags
	alignment       int
	dynamicPoolSize int
	cacheSize       int
	logger          *logrus.Logger
	strictAttrs     []string
}

func defaultOptions() Options {
	return Options{
		flags:     xmlparser.Full,
		cacheSize: defaultCacheSize,
		logger:    logrus.StandardLogger(),
	}
}

// Option configures a Loader at construction time.
type Option func(*Options)

// WithFlags overrides the xmlparser.Flags used for every parse. The
// default is xmlparser.Full (every optional node kind plus closing-tag
// validation), favoring a complete tree over raw throughput — callers
// chasing rapidxml::parse_fastest speeds should pass xmlparser.Fastest
// explicitly.
func WithFlags(f xmlparser.Flags) Option {
	return func(o *Options) { o.flags = f }
}

// WithPoolSizes overrides the arena's alignment and dynamic block size
// for every arena a Loader allocates. A zero alignment or dynamicSize
// leaves the corresponding arena default (machine pointer width,
// arena.DynamicPoolSize) in place.
func WithPoolSizes(alignment, dynamicSize int) Option {
	return func(o *Options) {
		o.alignment = alignment
		o.dynamicPoolSize = dynamicSize
	}
}

// WithCacheSize overrides how many parsed documents the Loader's LRU
// keeps before evicting (and Clear-ing the arena of) the oldest entry.
func WithCacheSize(n int) Option {
	return func(o *Options) { o.cacheSize = n }
}

// WithLogger installs a caller-supplied logger in place of logrus's
// package-level standard logger — the Go equivalent of the original's
// Logger shim indirection, letting callers redirect or silence logging.
func WithLogger(l *logrus.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithStrictAttrs enables the post-parse attribute-typo check: after a
// successful parse, every attribute name in the tree is compared against
// this schema of expected names and any name within maxSuggestionDistance
// edits of one of them (but not an exact match) is reported as a
// suggestion on the returned Result. It never changes parse results.
func WithStrictAttrs(expected ...string) Option {
	return func(o *Options) { o.strictAttrs = expected }
}
