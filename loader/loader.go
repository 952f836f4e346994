// Package loader is the convenience façade spec.md deliberately keeps
// out of the core: it reads a file into a writable, NUL-terminated
// buffer, hands it to xmlparser.Parse, and wraps the result with
// caching, logging, file watching and did-you-mean diagnostics. The
// core (arena, xmldom, xmlparser) never imports this package and knows
// nothing about files, logs or caches.
package loader

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/xreader-go/xreader/arena"
	"github.com/xreader-go/xreader/xmldom"
	"github.com/xreader-go/xreader/xmlparser"
)

// cacheKey identifies a cached parse by path and the file's mtime at
// the time it was read, so an on-disk edit invalidates the entry
// without the Loader needing to hash file contents.
type cacheKey struct {
	path  string
	mtime int64
	size  int64
}

// cacheEntry owns the arena a cached document was parsed into. Eviction
// clears it, which is the one place in this repository where a
// concrete caller exercises the core's "caller decides when the tree
// dies" lifetime contract.
type cacheEntry struct {
	arena *arena.Arena
	doc   *xmldom.Node
}

// Loader parses XML files into xmldom trees, reusing a bounded LRU of
// recently parsed documents keyed by path and mtime. A Loader is safe
// for concurrent Load calls from multiple goroutines as long as callers
// do not concurrently mutate a *xmldom.Node returned from it — the
// underlying arena and tree remain single-writer, matching §5.
type Loader struct {
	opts  Options
	log   *logrus.Logger
	cache *lru.Cache[cacheKey, *cacheEntry]
}

// New builds a Loader from the given options, applied on top of
// sensible defaults (xmlparser.Full flags, a 32-entry cache, logrus's
// standard logger).
func New(opts ...Option) *Loader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	l := &Loader{opts: o, log: o.logger}
	cache, err := lru.NewWithEvict[cacheKey, *cacheEntry](o.cacheSize, l.onEvict)
	if err != nil {
		// Only returned by golang-lru for a non-positive size, which
		// defaultOptions never produces; a caller-supplied WithCacheSize(0)
		// or negative value is a programmer error worth surfacing loudly.
		panic(fmt.Sprintf("loader: invalid cache size: %v", err))
	}
	l.cache = cache
	return l
}

func (l *Loader) onEvict(key cacheKey, entry *cacheEntry) {
	entry.arena.Clear()
	l.log.WithFields(logrus.Fields{
		"path":  key.path,
		"mtime": key.mtime,
	}).Debug("loader: evicted cached document, arena cleared")
}

// Load reads path, parses it with the Loader's configured flags, and
// returns a Result. A file whose path/mtime/size matches a cache entry
// is returned without re-parsing; the arena and document are shared
// with the cached entry, so callers must treat the returned tree as
// read-only if they intend to Load the same path again before mutating
// it.
func (l *Loader) Load(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loader: stat %s: %w", path, err)
	}

	id := uuid.New()
	key := cacheKey{path: path, mtime: info.ModTime().UnixNano(), size: info.Size()}
	if entry, ok := l.cache.Get(key); ok {
		l.log.WithFields(logrus.Fields{"path": path, "id": id}).Debug("loader: cache hit")
		return &Result{
			ID:              id,
			Path:            path,
			Document:        entry.doc,
			Arena:           entry.arena,
			FromCache:       true,
			AttrSuggestions: checkStrictAttrs(entry.doc, l.opts.strictAttrs),
		}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}

	buf := make([]byte, len(raw)+1)
	copy(buf, raw)

	a := arena.New()
	if l.opts.alignment != 0 {
		a.SetAlignment(l.opts.alignment)
	}
	if l.opts.dynamicPoolSize != 0 {
		a.SetDynamicPoolSize(l.opts.dynamicPoolSize)
	}

	start := time.Now()
	doc, perr := xmlparser.Parse(a, buf, l.opts.flags)
	elapsed := time.Since(start)

	fields := logrus.Fields{
		"id":      id,
		"path":    path,
		"bytes":   len(raw),
		"flags":   l.opts.flags,
		"elapsed": elapsed,
	}
	if perr != nil {
		l.log.WithFields(fields).WithError(perr).Warn("loader: parse failed")
		return nil, fmt.Errorf("loader: parse %s: %w", path, enrichParseError(perr, buf))
	}
	l.log.WithFields(fields).Debug("loader: parsed")

	l.cache.Add(key, &cacheEntry{arena: a, doc: doc})

	return &Result{
		ID:              id,
		Path:            path,
		Document:        doc,
		Arena:           a,
		ParseDuration:   elapsed,
		AttrSuggestions: checkStrictAttrs(doc, l.opts.strictAttrs),
	}, nil
}

// Encoding reads the encoding= pseudo-attribute off doc's declaration
// node, if one was emitted (requires xmlparser.DeclarationNode). It
// returns ("", false) when there is no declaration or no encoding
// attribute; the core itself never interprets this value.
func Encoding(doc *xmldom.Node) (string, bool) {
	decl := doc.FirstChild(nil, true)
	for ; decl != nil; decl = decl.NextSibling(nil, true) {
		if decl.Kind() == xmldom.Declaration {
			break
		}
	}
	if decl == nil {
		return "", false
	}
	v, ok := decl.Attribute([]byte("encoding"))
	if !ok {
		return "", false
	}
	return string(v), true
}

// WarnIfNotUTF8 logs a warning (but does not fail) if doc declares a
// non-UTF-8 encoding — the core has no notion of character encodings
// beyond the 8-bit code units spec.md §1 scopes it to, so this is purely
// advisory façade behavior.
func (l *Loader) WarnIfNotUTF8(path string, doc *xmldom.Node) {
	enc, ok := Encoding(doc)
	if !ok {
		return
	}
	switch enc {
	case "UTF-8", "utf-8", "":
		return
	}
	l.log.WithFields(logrus.Fields{"path": path, "encoding": enc}).
		Warn("loader: document declares a non-UTF-8 encoding; the core only decodes 8-bit code units")
}

// Close clears every cached arena and empties the cache. Every Result
// whose arena is still cached, whether it came from a fresh parse or a
// cache hit, shares that arena, so its tree is invalid after Close.
func (l *Loader) Close() {
	l.cache.Purge()
}
