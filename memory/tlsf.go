package memory

import "math/bits"

// TLSF implements a two-level segregated-fit allocator over a fixed
// buffer: O(1) bucket lookup via a top/leaf bitmap, splitting spans on
// alloc and coalescing neighbours on free. Spec §3.1/§4.1 bounds it to
// maxAllocs live blocks; this Go port enforces that with a count of
// live allocations that Alloc checks, and keeps span bookkeeping in a
// slice rather than an intrusive list.
//
// Bucket coordinates are derived from the source's 8-bit "ufloat"
// scheme: a size is classified into (exponent:5, mantissa:3) — 32 top
// bins of 8 leaf bins each, giving finer granularity as sizes grow
// within each power-of-two range.
type TLSF struct {
	buf       []byte
	backing   FreeHeap
	maxAllocs int

	spans    []tlsfSpan
	topMap   uint32
	leafMap  [32]uint8
	freeHead [32][8]int // index into spans, or -1

	liveAllocs int
}

type tlsfSpan struct {
	offset int
	size   int
	free   bool
	prev   int // physical neighbour, index into spans, -1 if none
	next   int
	fnext  int // free-list link within its bucket, -1 if none
	fprev  int
}

const (
	tlsfLeafBits  = 3
	tlsfLeafCount = 1 << tlsfLeafBits
	tlsfMinBlock  = 16
)

// NewTLSF constructs a TLSF heap over buf, accepting up to maxAllocs
// simultaneously live blocks.
func NewTLSF(buf []byte, maxAllocs int) *TLSF {
	t := &TLSF{buf: buf, maxAllocs: maxAllocs}
	for i := range t.freeHead {
		for j := range t.freeHead[i] {
			t.freeHead[i][j] = -1
		}
	}
	t.spans = make([]tlsfSpan, 0, maxAllocs*2+1)
	root := tlsfSpan{offset: 0, size: len(buf), free: true, prev: -1, next: -1, fnext: -1, fprev: -1}
	t.spans = append(t.spans, root)
	t.insertFree(0)
	return t
}

// NewTLSFFromHeap requests size bytes from h and builds a TLSF over them.
func NewTLSFFromHeap(h FreeHeap, size, maxAllocs int) *TLSF {
	buf := h.Alloc(size, 16)
	if buf == nil {
		return nil
	}
	t := NewTLSF(buf, maxAllocs)
	t.backing = h
	return t
}

// mapping classifies size into (top, leaf) bucket coordinates.
func mapping(size int) (top, leaf int) {
	if size < tlsfLeafCount {
		return 0, 0
	}
	fl := 0
	for s := size; s >= 2; s >>= 1 {
		fl++
	}
	if fl >= 32 {
		fl = 31
	}
	leaf = (size >> (fl - tlsfLeafBits)) & (tlsfLeafCount - 1)
	return fl, leaf
}

func (t *TLSF) insertFree(idx int) {
	s := &t.spans[idx]
	top, leaf := mapping(s.size)
	head := t.freeHead[top][leaf]
	s.fnext = head
	s.fprev = -1
	if head != -1 {
		t.spans[head].fprev = idx
	}
	t.freeHead[top][leaf] = idx
	t.topMap |= 1 << uint(top)
	t.leafMap[top] |= 1 << uint(leaf)
}

func (t *TLSF) removeFree(idx int) {
	s := &t.spans[idx]
	top, leaf := mapping(s.size)
	if s.fprev != -1 {
		t.spans[s.fprev].fnext = s.fnext
	} else {
		t.freeHead[top][leaf] = s.fnext
	}
	if s.fnext != -1 {
		t.spans[s.fnext].fprev = s.fprev
	}
	s.fnext, s.fprev = -1, -1
	if t.freeHead[top][leaf] == -1 {
		t.leafMap[top] &^= 1 << uint(leaf)
		if t.leafMap[top] == 0 {
			t.topMap &^= 1 << uint(top)
		}
	}
}

// findFit locates the smallest non-empty bucket whose size class is >=
// the requested size, per the top/leaf bitmap. The request's own bucket
// can hold spans smaller than size, so its head span is taken only when
// it is large enough; otherwise the search starts one leaf higher.
func (t *TLSF) findFit(size int) int {
	top, leaf := mapping(size)

	if head := t.freeHead[top][leaf]; head != -1 && t.spans[head].size >= size {
		return head
	}
	leafMask := t.leafMap[top] &^ ((1 << uint(leaf+1)) - 1)
	if leafMask != 0 {
		l := bits.TrailingZeros8(leafMask)
		return t.freeHead[top][l]
	}

	topMask := t.topMap &^ ((1 << uint(top+1)) - 1)
	if topMask != 0 {
		ft := bits.TrailingZeros32(topMask)
		l := bits.TrailingZeros8(t.leafMap[ft])
		return t.freeHead[ft][l]
	}
	return -1
}

// Alloc finds the smallest free span that fits size (rounded up for
// alignment headroom), splits the remainder back into the free lists
// when it exceeds the minimum block size, and returns the allocation.
func (t *TLSF) Alloc(size, alignment int) []byte {
	if size <= 0 || t.liveAllocs >= t.maxAllocs {
		return nil
	}
	need := size
	if alignment > 1 {
		need += alignment - 1
	}

	idx := t.findFit(need)
	if idx == -1 {
		return nil
	}
	t.removeFree(idx)
	s := t.spans[idx]

	if s.size-need >= tlsfMinBlock {
		remIdx := len(t.spans)
		rem := tlsfSpan{
			offset: s.offset + need,
			size:   s.size - need,
			free:   true,
			prev:   idx,
			next:   s.next,
		}
		if s.next != -1 {
			t.spans[s.next].prev = remIdx
		}
		t.spans = append(t.spans, rem)
		t.spans[idx].next = remIdx
		t.spans[idx].size = need
		t.insertFree(remIdx)
	}

	t.spans[idx].free = false
	t.liveAllocs++

	block := t.buf[t.spans[idx].offset : t.spans[idx].offset+t.spans[idx].size]
	start := 0
	if alignment > 1 {
		start = int(alignUp(addrOf(block), uintptr(alignment)) - addrOf(block))
	}
	return block[start : start+size : start+size]
}

// Free returns the span containing ptr to its bucket, coalescing with
// a free left or right physical neighbour first.
func (t *TLSF) Free(ptr []byte) {
	if ptr == nil {
		return
	}
	addr := addrOf(ptr)
	base := addrOf(t.buf)
	off := int(addr - base)

	idx := -1
	for i := range t.spans {
		s := &t.spans[i]
		if !s.free && off >= s.offset && off < s.offset+s.size {
			idx = i
			break
		}
	}
	if idx == -1 {
		panic("memory: free of a pointer not owned by this TLSF heap")
	}

	t.spans[idx].free = true
	t.liveAllocs--

	if next := t.spans[idx].next; next != -1 && t.spans[next].free {
		t.removeFree(next)
		t.spans[idx].size += t.spans[next].size
		t.spans[idx].next = t.spans[next].next
		if t.spans[idx].next != -1 {
			t.spans[t.spans[idx].next].prev = idx
		}
	}
	if prev := t.spans[idx].prev; prev != -1 && t.spans[prev].free {
		t.removeFree(prev)
		t.spans[prev].size += t.spans[idx].size
		t.spans[prev].next = t.spans[idx].next
		if t.spans[prev].next != -1 {
			t.spans[t.spans[prev].next].prev = prev
		}
		idx = prev
	}
	t.insertFree(idx)
}

// Destroy releases the backing buffer to its owning heap, if any.
func (t *TLSF) Destroy() {
	if t.backing != nil {
		t.backing.Free(t.buf)
	}
	t.buf, t.spans, t.backing = nil, nil, nil
}

// AsFreeHeap exposes t as the strongest capability it supports.
func (t *TLSF) AsFreeHeap() FreeHeap { return t }
