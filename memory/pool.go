package memory

// Pool is a fixed-block-size allocator: the buffer is carved up front
// into equal blocks linked into an intrusive free list, Alloc pops the
// free-list head, and Free pushes a block back onto it. Allocated and
// free blocks partition the pool at all times (spec §8 invariant 2).
//
// Grounded on original_source/Athena/pool_allocator.h.
type Pool struct {
	buf       []byte
	blockSize int
	free      []int // indices of free blocks, used as a stack (LIFO)
	inUse     []bool
	backing   FreeHeap
}

// NewPool carves buf into blocks of blockSize bytes. The free list is kept
// out of band, as a slice of block indices, rather than intrusive in the
// blocks themselves, so blockSize only has to be positive.
// The number of blocks is floor(len(buf)/blockSize).
func NewPool(buf []byte, blockSize int) *Pool {
	if blockSize <= 0 {
		panic("memory: pool block size must be positive")
	}
	n := len(buf) / blockSize
	p := &Pool{
		buf:       buf,
		blockSize: blockSize,
		free:      make([]int, n),
		inUse:     make([]bool, n),
	}
	for i := 0; i < n; i++ {
		// Free list as a LIFO stack; index 0 is the first popped,
		// matching the source's free-list head convention.
		p.free[i] = n - 1 - i
	}
	return p
}

// NewPoolFromHeap requests capacity*blockSize bytes from h and builds a
// Pool over them. Destroy releases the buffer back to h.
func NewPoolFromHeap(h FreeHeap, blockSize, capacity int) *Pool {
	buf := h.Alloc(blockSize*capacity, 16)
	if buf == nil {
		return nil
	}
	p := NewPool(buf, blockSize)
	p.backing = h
	return p
}

// Cap returns the total number of blocks in the pool.
func (p *Pool) Cap() int { return len(p.inUse) }

// Used returns the number of blocks currently allocated.
func (p *Pool) Used() int { return len(p.inUse) - len(p.free) }

// Alloc returns one free block, respecting the caller's alignment within
// the block, or nil if the pool is exhausted or the request does not fit
// a block.
func (p *Pool) Alloc(size, alignment int) []byte {
	if size > p.blockSize {
		return nil
	}
	if len(p.free) == 0 {
		return nil
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.inUse[idx] = true

	base := idx * p.blockSize
	block := p.buf[base : base+p.blockSize]
	start := 0
	if alignment > 1 {
		start = int(alignUp(addrOf(block), uintptr(alignment)) - addrOf(block))
	}
	if start+size > p.blockSize {
		// Requested alignment does not fit this block; undo and fail.
		p.free = append(p.free, idx)
		p.inUse[idx] = false
		return nil
	}
	return block[start : start+size : start+size]
}

// Free returns the block containing ptr's backing array to the free
// list. ptr need not be the exact slice Alloc returned, only a slice
// that shares the block's backing array at some valid offset within it.
// Double-free past this Go port's bookkeeping panics, matching the
// source's "detectable only in an assertion-enabled build" note — this
// port always enables the check.
func (p *Pool) Free(ptr []byte) {
	if ptr == nil {
		return
	}
	addr := addrOf(ptr)
	base := addrOf(p.buf)
	if addr < base || addr >= base+uintptr(len(p.buf)) {
		panic("memory: pool free of a pointer outside the pool")
	}
	idx := int(addr-base) / p.blockSize
	if !p.inUse[idx] {
		panic("memory: double free detected in pool")
	}
	p.inUse[idx] = false
	p.free = append(p.free, idx)
}

// Destroy releases the backing buffer to its owning heap, if any.
func (p *Pool) Destroy() {
	if p.backing != nil {
		p.backing.Free(p.buf)
	}
	p.buf, p.free, p.inUse, p.backing = nil, nil, nil, nil
}

// AsFreeHeap exposes p as the strongest capability it supports (alloc +
// free, no realloc: a pool's block size is fixed).
func (p *Pool) AsFreeHeap() FreeHeap { return p }
