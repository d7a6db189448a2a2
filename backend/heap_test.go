package backend

import "testing"

func TestPlaceAssignsSequentialOffsets(t *testing.T) {
	h := NewHeap(GpuLocal, 1024)

	p1, err := place(h, 300, 16)
	if err != nil {
		t.Fatalf("place 1: %v", err)
	}
	if p1.Offset != 0 {
		t.Fatalf("p1.Offset = %d, want 0", p1.Offset)
	}

	p2, err := place(h, 200, 16)
	if err != nil {
		t.Fatalf("place 2: %v", err)
	}
	if p2.Offset != 304 {
		t.Fatalf("p2.Offset = %d, want 304", p2.Offset)
	}

	if p1.Location != GpuLocal || p2.Location != GpuLocal {
		t.Fatal("placements should carry the heap's location")
	}
}

func TestPlaceFailsWhenExhausted(t *testing.T) {
	h := NewHeap(GpuLocal, 128)
	if _, err := place(h, 256, 16); err == nil {
		t.Fatal("expected an error placing a block larger than the heap")
	}
}

func TestDescriptorHeapReusesFreedSlots(t *testing.T) {
	h := NewDescriptorHeap()
	v1 := &View{Kind: ViewSRV}
	v2 := &View{Kind: ViewSRV}

	i1 := h.Bind(v1)
	i2 := h.Bind(v2)
	if i1 == i2 {
		t.Fatal("expected distinct indices for distinct binds")
	}

	h.Unbind(i1)
	v3 := &View{Kind: ViewUAV}
	i3 := h.Bind(v3)
	if i3 != i1 {
		t.Fatalf("expected freed slot %d to be reused, got %d", i1, i3)
	}
	if h.At(i3).Kind != ViewUAV {
		t.Fatal("At should return the most recently bound view")
	}
}
