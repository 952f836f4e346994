package arena

import (
	"bytes"
	"testing"
	"unsafe"
)

func TestAllocateAlignedIsAligned(t *testing.T) {
	a := New()
	for i := 0; i < 64; i++ {
		buf := a.AllocateAligned(i + 1)
		if len(buf) != i+1 {
			t.Fatalf("len = %d, want %d", len(buf), i+1)
		}
		if p := uintptr(unsafe.Pointer(&buf[0])); p%uintptr(DefaultAlignment) != 0 {
			t.Fatalf("allocation %d at %#x is not %d-byte aligned", i, p, DefaultAlignment)
		}
	}
}

func TestAllocateStringCopiesExplicitSize(t *testing.T) {
	a := New()
	src := []byte("hello")
	got := a.AllocateString(src, len(src))
	if !bytes.Equal(got, src) {
		t.Fatalf("got %q, want %q", got, src)
	}

	// Mutating the arena copy must not affect the source.
	got[0] = 'H'
	if src[0] != 'h' {
		t.Fatalf("source mutated through arena copy")
	}
}

func TestAllocateStringMeasuresNulTerminated(t *testing.T) {
	a := New()
	src := []byte("hi\x00trailing-garbage")
	got := a.AllocateString(src, 0)
	if string(got) != "hi\x00" {
		t.Fatalf("got %q, want %q", got, "hi\x00")
	}
}

func TestGrowBeyondStaticPool(t *testing.T) {
	a := New()
	a.AllocateAligned(StaticPoolSize - 8)
	before := a.AllocCount()

	big := a.AllocateAligned(StaticPoolSize)
	if len(big) != StaticPoolSize {
		t.Fatalf("len = %d, want %d", len(big), StaticPoolSize)
	}
	if a.AllocCount() != before+1 {
		t.Fatalf("AllocCount = %d, want %d", a.AllocCount(), before+1)
	}
}

func TestClearResetsToInlineBlock(t *testing.T) {
	a := New()
	a.AllocateAligned(StaticPoolSize * 2)
	if a.AllocCount() == 0 {
		t.Fatal("expected allocations before Clear")
	}

	a.Clear()
	if a.AllocCount() != 0 {
		t.Fatalf("AllocCount after Clear = %d, want 0", a.AllocCount())
	}
	if !a.AtInlineStart() {
		t.Fatal("expected arena to be back at the inline block start after Clear")
	}
}

func TestSetAllocatorAfterAllocationPanics(t *testing.T) {
	a := New()
	a.AllocateAligned(1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling SetAllocator after an allocation")
		}
	}()
	a.SetAllocator(func(n int) []byte { return make([]byte, n) }, nil)
}

func TestCustomAllocatorReturningNilPanics(t *testing.T) {
	a := New()
	a.SetAllocator(func(int) []byte { return nil }, nil)

	defer func() {
		r := recover()
		if r != ErrOutOfMemory {
			t.Fatalf("recovered %v, want ErrOutOfMemory", r)
		}
	}()
	a.AllocateAligned(StaticPoolSize * 2)
}

func TestSetDynamicPoolSizeGrowsByConfiguredAmount(t *testing.T) {
	a := New()
	a.SetDynamicPoolSize(4096)
	var requested int
	a.SetAllocator(func(n int) []byte { requested = n; return make([]byte, n) }, nil)
	a.AllocateAligned(StaticPoolSize) // exhaust the inline block

	before := a.AllocCount()
	buf := a.AllocateAligned(16)
	if len(buf) != 16 {
		t.Fatalf("len = %d, want 16", len(buf))
	}
	if requested != 4096 {
		t.Fatalf("dynamic block size = %d, want 4096", requested)
	}
	if a.AllocCount() != before+1 {
		t.Fatalf("AllocCount = %d, want %d", a.AllocCount(), before+1)
	}
}

func TestSetDynamicPoolSizeAfterAllocationPanics(t *testing.T) {
	a := New()
	a.AllocateAligned(1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling SetDynamicPoolSize after an allocation")
		}
	}()
	a.SetDynamicPoolSize(4096)
}

func TestAllocationsNeverOverlap(t *testing.T) {
	a := New()
	seen := make(map[*byte]bool)
	for i := 0; i < 2000; i++ {
		buf := a.AllocateAligned(17)
		for j := range buf {
			p := &buf[j]
			if seen[p] {
				t.Fatalf("overlapping allocation detected at iteration %d", i)
			}
			seen[p] = true
		}
	}
}
