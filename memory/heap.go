package memory

// AllocHeap is the weakest heap capability: it can only satisfy
// allocations. Every primitive allocator in this package implements at
// least this much.
type AllocHeap interface {
	// Alloc reserves size bytes aligned to alignment and returns the
	// backing slice, or nil if the allocator cannot satisfy the request.
	Alloc(size, alignment int) []byte
}

// FreeHeap additionally allows individually freeing what was allocated. A
// FreeHeap is trivially usable wherever an AllocHeap is required.
type FreeHeap interface {
	AllocHeap
	// Free releases a previously allocated block back to the allocator.
	Free(block []byte)
}

// ReallocFreeHeap is the strongest capability: alloc, free, and resize in
// place or via relocation. A ReallocFreeHeap satisfies FreeHeap and
// AllocHeap for free, by Go's interface embedding.
type ReallocFreeHeap interface {
	FreeHeap
	// Realloc resizes block to newSize, possibly moving it. Passing a nil
	// block behaves like Alloc; passing newSize 0 behaves like Free and
	// returns nil.
	Realloc(block []byte, newSize, alignment int) []byte
}

// globalOS is the process-wide OS allocator singleton, usable anywhere a
// FreeHeap is accepted (spec §4.2: "The global OS allocator is a
// process-wide singleton usable anywhere a FreeHeap is accepted").
var globalOS = NewOSAllocator()

// GlobalOS returns the process-wide OS page allocator.
func GlobalOS() *OSAllocator { return globalOS }
