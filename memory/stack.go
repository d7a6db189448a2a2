package memory

// Stack is a Linear allocator that additionally allows popping an exact
// byte count from the top, LIFO. It backs the per-thread Context scratch
// facility (context.go / scratch.go).
//
// Grounded on original_source/Athena/memory/memory.h's DoubleEndedStack
// shape and spec §4.1/§4.3.
type Stack struct {
	buf     []byte
	pos     int
	backing FreeHeap
}

// NewStack constructs a Stack over a caller-owned buffer.
func NewStack(buf []byte) *Stack {
	return &Stack{buf: buf}
}

// NewStackFromHeap requests size bytes from h and constructs a Stack over
// them. Destroy releases the buffer back to h.
func NewStackFromHeap(h FreeHeap, size int) *Stack {
	buf := h.Alloc(size, 16)
	if buf == nil {
		return nil
	}
	return &Stack{buf: buf, backing: h}
}

// Push allocates size bytes aligned to alignment and returns the block
// together with the actual number of bytes consumed (size plus trailing
// padding), so that a caller holding that count can later Pop exactly it.
func (s *Stack) Push(size, alignment int) (block []byte, allocated int) {
	if size <= 0 {
		return nil, 0
	}
	start := s.pos
	if start+size > len(s.buf) {
		return nil, 0
	}
	block = s.buf[start : start+size : start+size]

	next := start + size
	if alignment > 1 {
		next = int(alignUp(uintptr(next), uintptr(alignment)))
		if next > len(s.buf) {
			next = len(s.buf)
		}
	}
	allocated = next - start
	s.pos = next
	return block, allocated
}

// Pop rewinds the cursor by exactly size bytes. It panics if that would
// move the cursor below zero — a fatal invariant violation per spec §7,
// not a recoverable error.
func (s *Stack) Pop(size int) {
	if s.pos-size < 0 {
		panic("memory: stack pop underflows buffer start")
	}
	s.pos -= size
}

// Pos returns the current cursor offset.
func (s *Stack) Pos() int { return s.pos }

// Cap returns the total buffer size.
func (s *Stack) Cap() int { return len(s.buf) }

// Reset rewinds the cursor to zero, discarding every live allocation.
func (s *Stack) Reset() { s.pos = 0 }

// Destroy releases the backing buffer to its owning heap, if any.
func (s *Stack) Destroy() {
	if s.backing != nil {
		s.backing.Free(s.buf)
	}
	s.buf = nil
	s.pos = 0
	s.backing = nil
}

// AsAllocHeap exposes s as the weakest capability it supports.
func (s *Stack) AsAllocHeap() AllocHeap { return stackAllocAdapter{s} }

type stackAllocAdapter struct{ s *Stack }

func (a stackAllocAdapter) Alloc(size, alignment int) []byte {
	b, _ := a.s.Push(size, alignment)
	return b
}
