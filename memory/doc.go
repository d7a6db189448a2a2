// Package memory implements the allocator hierarchy described by the core's
// memory subsystem: an OS page allocator at the bottom, linear/stack/pool/
// TLSF primitives over caller-supplied buffers, the heap-capability
// interfaces that erase the concrete allocator type, and the thread-scratch
// facility built on top of a stack allocator.
//
// Every primitive allocator is a value type that owns at most one backing
// []byte. Destroying an allocator that was constructed through a backing
// FreeHeap releases that buffer back to the heap; an allocator constructed
// directly over a caller-owned []byte leaves that slice for the caller (and
// ultimately the garbage collector) to deal with.
//
// Grounded on original_source/Athena/memory/memory.{h,cpp},
// pool_allocator.h and context.cpp; the []byte+unsafe.Pointer idiom for
// modelling a raw address range follows the pack's
// SeleniaProject-Orizon region allocator.
package memory

import "unsafe"

// addrOf returns the real memory address backing buf's first byte. It is
// used to honour caller-requested alignments against the actual address
// space rather than against a buffer-relative offset of zero, matching the
// source's use of the real pointer for alignment.
func addrOf(buf []byte) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

// alignUp rounds addr up to the next multiple of alignment, which must be
// a power of two.
func alignUp(addr uintptr, alignment uintptr) uintptr {
	if alignment == 0 {
		return addr
	}
	if alignment&(alignment-1) != 0 {
		panic("memory: alignment must be a power of two")
	}
	mask := alignment - 1
	return (addr + mask) &^ mask
}

const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
)
