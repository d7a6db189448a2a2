package memory

import "sync"

// PageSize is the granularity the OS page allocator hands out. 4 KiB
// matches the native Windows page size the source targets; the value is
// a constant rather than queried because nothing in this port talks to
// the real VirtualAlloc/VirtualFree API (see the Open Question note in
// DESIGN.md).
const PageSize = 4 * KiB

// OSAllocator is the ultimate source of memory: every other allocator in
// this package either wraps a caller-supplied buffer or, transitively,
// one obtained from here.
//
// Go's managed runtime gives no portable way to reserve-then-commit raw
// virtual address ranges the way Windows VirtualAlloc does, so OSAllocator
// reserves page-aligned Go-heap memory via make([]byte, ...) instead. The
// reservation/commit distinction collapses: Alloc both reserves and
// commits in one step, there is no separate decommit step, and Free only
// updates bookkeeping, because Go's garbage collector — not this type —
// owns the real page lifecycle.
// This is documented rather than hidden: it is the one place this port
// cannot be faithful to the source's OS-level behavior.
type OSAllocator struct {
	mu        sync.Mutex
	committed int64
}

// NewOSAllocator constructs an OSAllocator. There is normally only one,
// reachable via GlobalOS.
func NewOSAllocator() *OSAllocator {
	return &OSAllocator{}
}

// Alloc reserves and commits a page-aligned region of at least size
// bytes. alignment beyond PageSize is honored by over-allocating and
// trimming.
func (o *OSAllocator) Alloc(size, alignment int) []byte {
	if size <= 0 {
		return nil
	}
	pages := (size + PageSize - 1) / PageSize
	total := pages * PageSize
	if alignment > PageSize {
		total += alignment
	}
	raw := make([]byte, total)
	addr := addrOf(raw)
	aligned := alignUp(addr, uintptr(max(alignment, PageSize)))
	off := int(aligned - addr)
	buf := raw[off : off+pages*PageSize]

	o.mu.Lock()
	o.committed += int64(len(buf))
	o.mu.Unlock()

	return buf[:size:len(buf)]
}

// Free releases block back to the process. Because Alloc's memory is
// ordinary Go-heap memory, this only updates bookkeeping; the slice
// becomes eligible for garbage collection once the caller drops its last
// reference.
func (o *OSAllocator) Free(block []byte) {
	if block == nil {
		return
	}
	o.mu.Lock()
	o.committed -= int64(cap(block))
	o.mu.Unlock()
}

// Committed reports the number of bytes currently tracked as committed.
func (o *OSAllocator) Committed() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.committed
}
