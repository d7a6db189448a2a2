package backend

import "sync"

// DescriptorIndex is a bindless shader-resource handle: an integer offset
// into the backend's single global descriptor table, the form spec §6
// says root 32-bit constants carry shader resources in rather than
// per-draw binding slots.
type DescriptorIndex uint32

// DescriptorHeap is the bindless descriptor table every View is registered
// into before a pass can reference it by index, matching the source's
// single persistent CBV/SRV/UAV heap (graphics.h's GpuDescriptorHeap,
// generalized here to hold any View kind since wgpu has no native
// descriptor-heap object to mirror one-to-one).
type DescriptorHeap struct {
	mu      sync.Mutex
	entries []*View
	free    []DescriptorIndex
}

// NewDescriptorHeap creates an empty bindless table.
func NewDescriptorHeap() *DescriptorHeap {
	return &DescriptorHeap{}
}

// Bind registers v and returns the index shader code should use to address
// it, reusing a freed slot before growing the table.
func (h *DescriptorHeap) Bind(v *View) DescriptorIndex {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.free); n > 0 {
		idx := h.free[n-1]
		h.free = h.free[:n-1]
		h.entries[idx] = v
		return idx
	}
	h.entries = append(h.entries, v)
	return DescriptorIndex(len(h.entries) - 1)
}

// Unbind releases idx back to the table, matching free_descriptor.
func (h *DescriptorHeap) Unbind(idx DescriptorIndex) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[idx] = nil
	h.free = append(h.free, idx)
}

// At returns the View bound at idx.
func (h *DescriptorHeap) At(idx DescriptorIndex) *View {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[idx]
}
