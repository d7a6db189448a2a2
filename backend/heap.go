package backend

import (
	"fmt"

	"github.com/Carmen-Shannon/athena/memory"
)

// HeapLocation selects a heap's CPU/GPU visibility, matching GpuHeapType
// generalized to the four placements spec §6 names.
type HeapLocation uint8

const (
	// GpuLocal is device-local memory with no CPU access, the default for
	// render targets, depth buffers, and static geometry.
	GpuLocal HeapLocation = iota
	// SysRamCpuToGpu is host-visible memory for CPU writes the GPU reads,
	// the upload-buffer placement (GpuHeapType::Upload).
	SysRamCpuToGpu
	// VramCpuToGpu is device-local memory the CPU can still write into
	// directly, used for small, frequently-updated resources on backends
	// that expose a host-visible device-local heap type.
	VramCpuToGpu
	// SysRamGpuToCpu is host-visible memory for GPU writes the CPU reads
	// back, the readback-buffer placement.
	SysRamGpuToCpu
)

func (l HeapLocation) String() string {
	switch l {
	case GpuLocal:
		return "GpuLocal"
	case SysRamCpuToGpu:
		return "SysRamCpuToGpu"
	case VramCpuToGpu:
		return "VramCpuToGpu"
	case SysRamGpuToCpu:
		return "SysRamGpuToCpu"
	default:
		return fmt.Sprintf("HeapLocation(%d)", l)
	}
}

// Heap is a linear allocator over a virtual offset range within one
// location, the bookkeeping-only stand-in for GpuResourceHeap described in
// doc.go. PlaceBuffer/PlaceTexture consult it only to assign the offset
// recorded on the returned Placement; the wgpu resource itself is always a
// full, independent driver allocation.
type Heap struct {
	location HeapLocation
	cursor   *memory.Linear
}

// NewHeap reserves a size-byte virtual offset range at location, matching
// alloc_gpu_heap.
func NewHeap(location HeapLocation, size int) *Heap {
	return &Heap{location: location, cursor: memory.NewLinear(make([]byte, size))}
}

// Location reports the heap's placement class.
func (h *Heap) Location() HeapLocation { return h.location }

// Placement is a resource's position within a Heap, matching the
// (heap, offset, size) triple in the source's placed-resource calls.
type Placement struct {
	Heap     *Heap
	Offset   int
	Size     int
	Location HeapLocation
}

// place reserves size bytes at alignment within h, returning the resulting
// Placement, or an error if the heap is exhausted.
func place(h *Heap, size, alignment int) (Placement, error) {
	offset := h.cursor.Pos()
	if h.cursor.Alloc(size, alignment) == nil {
		return Placement{}, fmt.Errorf("backend: heap %s exhausted (cap %d, requested %d at offset %d)",
			h.location, h.cursor.Cap(), size, offset)
	}
	return Placement{Heap: h, Offset: offset, Size: size, Location: h.location}, nil
}
