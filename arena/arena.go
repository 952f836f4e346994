// Package arena implements a bump-pointer region allocator for the XML
// reader's node, attribute and string storage.
//
// An Arena carves memory out of a fixed-size inline block first; once that
// is exhausted it grows by requesting additional blocks from a pluggable
// raw allocator and chains them together. Nothing allocated from an Arena
// is ever freed individually — Clear releases every dynamic block at once
// and resets the inline block for reuse.
//
// This package only deals in raw aligned byte slices and byte copies
// (AllocateAligned, AllocateString); the xmldom package builds typed node
// and attribute allocation on top of AllocateAligned so that arena stays
// free of any dependency on the DOM types it backs.
package arena

import (
	"errors"
	"unsafe"
)

// StaticPoolSize is the size, in bytes, of the inline block carried inside
// every Arena value before any dynamic block is requested.
const StaticPoolSize = 64 * 1024

// DynamicPoolSize is the minimum size, in bytes, of a dynamic block
// requested once the inline block (or the previous dynamic block) is full.
const DynamicPoolSize = 64 * 1024

// DefaultAlignment is the alignment, in bytes, applied to every allocation
// unless a different power-of-two alignment is configured.
const DefaultAlignment = int(unsafe.Sizeof(uintptr(0)))

// AllocFunc allocates a raw block of n bytes. It must not return nil; a
// raw allocator that cannot satisfy a request must panic, os.Exit, or
// otherwise not return, matching the contract of a user-supplied
// allocator in the reference implementation.
type AllocFunc func(n int) []byte

// FreeFunc releases a block previously returned by an AllocFunc.
type FreeFunc func(block []byte)

// block is one dynamically-allocated region chained behind the Arena's
// inline block. previous points at the block allocated right before it
// (nil for the oldest dynamic block), mirroring the reference pool's
// "header holding the previous block's start pointer" so Clear can walk
// the chain backward and release every block in one pass.
type block struct {
	mem      []byte
	previous *block
}

// Arena is a region allocator for the XML reader. The zero value is a
// ready-to-use, empty Arena backed by its own inline static block.
//
// Arena is not safe for concurrent use: a single parse (or a single
// sequence of manual allocations) must be driven from one goroutine at a
// time, matching the single-threaded parser model this package supports.
type Arena struct {
	alignment   int
	dynamicSize int
	allocFunc   AllocFunc
	freeFunc    FreeFunc

	static [StaticPoolSize]byte

	cur   []byte // free tail of the current block ([0:len] is unused space)
	begin []byte // start of the current block, for alignment arithmetic
	last  *block // most recently allocated dynamic block, or nil

	allocCount int // number of successful Allocate* calls since the last Clear
}

// New returns a ready-to-use Arena with the default alignment and default
// raw allocator.
func New() *Arena {
	a := &Arena{}
	a.init()
	return a
}

func (a *Arena) init() {
	if a.alignment == 0 {
		a.alignment = DefaultAlignment
	}
	a.begin = a.static[:]
	a.cur = a.static[:]
}

// SetAllocator installs custom raw allocation hooks. It must be called
// before any allocation has been made from this Arena; calling it
// afterward panics.
func (a *Arena) SetAllocator(alloc AllocFunc, free FreeFunc) {
	if a.allocCount != 0 {
		panic("arena: SetAllocator called after allocation has occurred")
	}
	a.allocFunc = alloc
	a.freeFunc = free
}

// SetAlignment overrides the default alignment (machine pointer width).
// n must be a power of two; like SetAllocator this must happen before any
// allocation.
func (a *Arena) SetAlignment(n int) {
	if a.allocCount != 0 {
		panic("arena: SetAlignment called after allocation has occurred")
	}
	if n <= 0 || n&(n-1) != 0 {
		panic("arena: alignment must be a power of two")
	}
	a.alignment = n
	if a.begin == nil {
		a.init()
	}
}

// SetDynamicPoolSize overrides the minimum size of each dynamic block
// requested once the inline block is exhausted (DynamicPoolSize by
// default). Like SetAllocator this must happen before any allocation.
func (a *Arena) SetDynamicPoolSize(n int) {
	if a.allocCount != 0 {
		panic("arena: SetDynamicPoolSize called after allocation has occurred")
	}
	if n <= 0 {
		panic("arena: dynamic pool size must be positive")
	}
	a.dynamicSize = n
}

// ErrOutOfMemory is the panic value raised when a raw allocator returns a
// nil slice instead of either succeeding or itself refusing to return
// (panicking, calling os.Exit, etc). Callers that install a fatal handler
// around a parse (see xmlparser.Parse) recover this and report it using
// the "out of memory" message from the error taxonomy.
var ErrOutOfMemory = errors.New("arena: out of memory")

func (a *Arena) rawAlloc(n int) []byte {
	if a.allocFunc != nil {
		buf := a.allocFunc(n)
		if buf == nil {
			panic(ErrOutOfMemory)
		}
		return buf
	}
	return make([]byte, n)
}

func (a *Arena) rawFree(buf []byte) {
	if a.freeFunc != nil {
		a.freeFunc(buf)
	}
}

// alignUp rounds off up to the next multiple of the Arena's alignment.
func alignUp(off, alignment int) int {
	return (off + alignment - 1) &^ (alignment - 1)
}

// AllocateAligned returns a zeroed byte slice of length n, aligned to the
// Arena's configured alignment, carved from the current block or a freshly
// grown one. The returned slice is backed by memory that lives until the
// next Clear.
func (a *Arena) AllocateAligned(n int) []byte {
	if a.begin == nil {
		a.init()
	}
	if n < 0 {
		panic("arena: negative allocation size")
	}

	used := len(a.begin) - len(a.cur)
	base := int(uintptr(unsafe.Pointer(unsafe.SliceData(a.begin))) & uintptr(a.alignment-1))
	start := alignUp(base+used, a.alignment) - base

	if start+n > len(a.begin) {
		a.grow(n)
		base = int(uintptr(unsafe.Pointer(unsafe.SliceData(a.begin))) & uintptr(a.alignment-1))
		start = alignUp(base, a.alignment) - base
	}

	out := a.begin[start : start+n : start+n]
	clear(out)
	a.cur = a.begin[start+n:]
	a.allocCount++
	return out
}

// grow requests a fresh dynamic block sized to accommodate at least n
// bytes (plus the Arena's alignment slack) and makes it the current block.
func (a *Arena) grow(n int) {
	size := a.dynamicSize
	if size == 0 {
		size = DynamicPoolSize
	}
	if want := n + a.alignment; want > size {
		size = want
	}

	mem := a.rawAlloc(size)
	b := &block{mem: mem, previous: a.last}
	a.last = b

	a.begin = mem
	a.cur = mem
}

// AllocateString allocates a copy of source (or, if source is nil, size
// zero bytes) from the Arena and returns it. If size is zero and source is
// non-nil, source is treated as a NUL-terminated byte slice: its length up
// to (and including) the first zero byte is measured and that many bytes
// are allocated and copied.
func (a *Arena) AllocateString(source []byte, size int) []byte {
	if size == 0 {
		if source == nil {
			return nil
		}
		size = measureCString(source) + 1
	}

	dst := a.AllocateAligned(size)
	if source != nil {
		copy(dst, source[:size])
	}
	return dst
}

// measureCString returns the length of a NUL-terminated byte slice,
// not counting the terminator. It mirrors the reference implementation's
// internal::measure helper.
func measureCString(s []byte) int {
	for i, b := range s {
		if b == 0 {
			return i
		}
	}
	return len(s)
}

// Clear releases every dynamic block allocated by this Arena and resets
// the inline block for reuse. Every pointer returned by a prior
// AllocateAligned/AllocateString call (or anything built atop them, such
// as xmldom's NewNode/NewAttribute) becomes invalid.
func (a *Arena) Clear() {
	for b := a.last; b != nil; {
		prev := b.previous
		a.rawFree(b.mem)
		b = prev
	}
	a.last = nil
	a.begin = a.static[:]
	a.cur = a.static[:]
	a.allocCount = 0
}

// AllocCount reports how many allocations have occurred since
// construction or the last Clear. Exposed for tests of the arena-release
// property in spec §8.
func (a *Arena) AllocCount() int {
	return a.allocCount
}

// AtInlineStart reports whether the Arena's current allocation pointer is
// at the very start of its inline block — true immediately after
// construction or Clear.
func (a *Arena) AtInlineStart() bool {
	return len(a.begin) == len(a.static) && len(a.cur) == len(a.static)
}
