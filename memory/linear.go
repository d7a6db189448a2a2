package memory

// Linear is a cursor allocator: every call to Alloc bumps pos forward and
// the allocator never frees individual allocations. Reset rewinds the
// cursor to the start of the buffer in one step.
//
// Grounded on original_source/Athena/memory/memory.{h,cpp}
// (FrameAllocator) and spec §4.1.
type Linear struct {
	buf     []byte
	pos     int
	backing FreeHeap
}

// NewLinear constructs a Linear over a caller-owned buffer. Destroy will
// not release buf anywhere, since no backing heap was given.
func NewLinear(buf []byte) *Linear {
	return &Linear{buf: buf}
}

// NewLinearFromHeap requests size bytes from h and constructs a Linear
// over them. Destroy releases the buffer back to h.
func NewLinearFromHeap(h FreeHeap, size int) *Linear {
	buf := h.Alloc(size, 16)
	if buf == nil {
		return nil
	}
	return &Linear{buf: buf, backing: h}
}

// Alloc aligns the current cursor's end-of-allocation boundary up to
// alignment and returns a size-byte slice starting at the cursor prior to
// that rounding, or nil if the buffer cannot satisfy the request.
//
// The padding is applied after size is consumed, not before: the
// returned block itself starts at the unaligned, current cursor. This
// matches the observable cursor sequence in spec §8 scenario S1 (a 1024
// byte buffer, allocations of 300/200/100 at 16-byte alignment produce
// cursors 0, 304, 512, 624) where each new cursor is
// alignUp(prevCursor+size, alignment) rather than alignUp(prevCursor,
// alignment)+size.
func (l *Linear) Alloc(size, alignment int) []byte {
	if size <= 0 {
		return nil
	}
	start := l.pos
	if start+size > len(l.buf) {
		return nil
	}
	block := l.buf[start : start+size : start+size]

	next := start + size
	if alignment > 1 {
		next = int(alignUp(uintptr(next), uintptr(alignment)))
		if next > len(l.buf) {
			next = len(l.buf)
		}
	}
	l.pos = next
	return block
}

// Reset rewinds the cursor to the start of the buffer. Reset followed by
// repeating the same allocation sequence yields identical offsets (spec
// §8 round-trip property).
func (l *Linear) Reset() { l.pos = 0 }

// Pos returns the current cursor offset, always within [0, Cap()].
func (l *Linear) Pos() int { return l.pos }

// Cap returns the total buffer size.
func (l *Linear) Cap() int { return len(l.buf) }

// Destroy releases the backing buffer to its owning heap, if any.
func (l *Linear) Destroy() {
	if l.backing != nil {
		l.backing.Free(l.buf)
	}
	l.buf = nil
	l.pos = 0
	l.backing = nil
}

// AsAllocHeap exposes l as the weakest capability it supports.
func (l *Linear) AsAllocHeap() AllocHeap { return l }
