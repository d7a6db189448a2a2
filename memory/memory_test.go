package memory

import "testing"

// S1: a linear allocator over a 1024 byte buffer allocating 300/200/100
// bytes at 16 byte alignment produces cursors 0, 304, 512, 624, and
// resetting then repeating the sequence reproduces the same offsets.
func TestLinearS1(t *testing.T) {
	run := func() []int {
		l := NewLinear(make([]byte, 1024))
		var got []int
		for _, size := range []int{300, 200, 100} {
			block := l.Alloc(size, 16)
			if block == nil {
				t.Fatalf("alloc(%d) failed", size)
			}
			got = append(got, l.Pos())
		}
		return got
	}

	want := []int{304, 512, 624}
	got := run()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cursor[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	got2 := run()
	for i := range got {
		if got[i] != got2[i] {
			t.Fatalf("reset+repeat offsets diverged at %d: %d vs %d", i, got[i], got2[i])
		}
	}
}

func TestLinearBounds(t *testing.T) {
	l := NewLinear(make([]byte, 64))
	if l.Alloc(65, 1) != nil {
		t.Fatal("allocation larger than buffer should fail")
	}
	if l.Pos() != 0 {
		t.Fatalf("failed alloc must not move cursor, got %d", l.Pos())
	}
}

// S2: pool with block_size=64, capacity 4: alloc A..D succeed, E fails,
// freeing B then allocating F returns the same block as B.
func TestPoolS2(t *testing.T) {
	p := NewPool(make([]byte, 64*4), 64)

	a := p.Alloc(64, 1)
	b := p.Alloc(64, 1)
	c := p.Alloc(64, 1)
	d := p.Alloc(64, 1)
	for name, blk := range map[string][]byte{"A": a, "B": b, "C": c, "D": d} {
		if blk == nil {
			t.Fatalf("alloc %s should have succeeded", name)
		}
	}

	if e := p.Alloc(64, 1); e != nil {
		t.Fatal("fifth alloc from a 4-block pool should fail")
	}

	p.Free(b)
	f := p.Alloc(64, 1)
	if f == nil {
		t.Fatal("alloc after free should succeed")
	}
	if addrOf(f) != addrOf(b) {
		t.Fatal("alloc after free should return the just-freed block (LIFO free list)")
	}
}

func TestPoolDoubleFreePanics(t *testing.T) {
	p := NewPool(make([]byte, 64*2), 64)
	a := p.Alloc(64, 1)
	p.Free(a)
	defer func() {
		if recover() == nil {
			t.Fatal("double free should panic")
		}
	}()
	p.Free(a)
}

// S3: scratch nesting. Begin S1, allocate 100 bytes, begin S2, allocate
// 50 bytes. End S2 then S1; the stack cursor must return to its pre-S1
// value. Ending S1 before S2 must trip the nesting assertion.
func TestScratchS3(t *testing.T) {
	ctx := NewContextOverBuffer(make([]byte, 4096))
	preCursor := ctx.stack.Pos()

	s1 := AllocScratch(ctx)
	if s1.Alloc(100, 16) == nil {
		t.Fatal("s1 alloc failed")
	}
	s2 := AllocScratch(ctx)
	if s2.Alloc(50, 16) == nil {
		t.Fatal("s2 alloc failed")
	}

	s2.Release()
	s1.Release()

	if ctx.stack.Pos() != preCursor {
		t.Fatalf("stack cursor = %d, want %d", ctx.stack.Pos(), preCursor)
	}
}

func TestScratchOutOfOrderReleasePanics(t *testing.T) {
	ctx := NewContextOverBuffer(make([]byte, 4096))
	s1 := AllocScratch(ctx)
	s1.Alloc(100, 16)
	s2 := AllocScratch(ctx)
	s2.Alloc(50, 16)

	defer func() {
		if recover() == nil {
			t.Fatal("releasing s1 before s2 should panic")
		}
	}()
	s1.Release()
}

func TestTLSFAllocFreeCoalesce(t *testing.T) {
	heap := NewTLSF(make([]byte, 4096), 16)

	a := heap.Alloc(256, 16)
	b := heap.Alloc(256, 16)
	c := heap.Alloc(256, 16)
	if a == nil || b == nil || c == nil {
		t.Fatal("expected three allocations to succeed in a 4KiB heap")
	}

	heap.Free(a)
	heap.Free(b)

	// a and b are physically adjacent and both free: a fresh request
	// spanning both should now succeed as one coalesced allocation.
	d := heap.Alloc(500, 16)
	if d == nil {
		t.Fatal("expected coalesced span to satisfy a 500 byte request")
	}
	if addrOf(d) != addrOf(a) {
		t.Fatal("expected the 500 byte request to be placed in the coalesced a+b span")
	}
}

func TestOSAllocatorRoundTrip(t *testing.T) {
	os := NewOSAllocator()
	buf := os.Alloc(100, 16)
	if buf == nil || len(buf) != 100 {
		t.Fatalf("expected a 100 byte allocation, got %d", len(buf))
	}
	if os.Committed() == 0 {
		t.Fatal("expected committed bytes to be tracked")
	}
	os.Free(buf)
}
