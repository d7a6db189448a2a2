package backend

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Buffer is a placed GPU buffer, matching GpuBuffer.
type Buffer struct {
	handle    *wgpu.Buffer
	Placement Placement
}

// Texture is a placed GPU texture, matching GpuTexture.
type Texture struct {
	handle    *wgpu.Texture
	Width     int
	Height    int
	Format    wgpu.TextureFormat
	Placement Placement
}

func bufferUsage(location HeapLocation, extra wgpu.BufferUsage) wgpu.BufferUsage {
	usage := extra | wgpu.BufferUsageCopyDst
	switch location {
	case SysRamCpuToGpu, VramCpuToGpu:
		usage |= wgpu.BufferUsageCopySrc
	case SysRamGpuToCpu:
		usage |= wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst
	}
	return usage
}

// PlaceBuffer places a size-byte buffer within heap at the driver's default
// alignment, matching d3d12_place_buffer. usage carries the buffer's
// binding role (vertex/index/uniform/storage) on top of the copy flags
// every placed buffer gets so upload/readback paths always work.
func (g *GPU) PlaceBuffer(heap *Heap, name string, size int, usage wgpu.BufferUsage) (*Buffer, error) {
	const defaultAlignment = 256
	placement, err := place(heap, size, defaultAlignment)
	if err != nil {
		return nil, err
	}
	buf, err := g.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            name,
		Size:             uint64(size),
		Usage:            bufferUsage(heap.location, usage),
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("backend: create buffer %q: %w", name, err)
	}
	return &Buffer{handle: buf, Placement: placement}, nil
}

// PlaceTexture places a width x height texture within heap, matching
// d3d12_place_texture.
func (g *GPU) PlaceTexture(heap *Heap, name string, width, height int, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*Texture, error) {
	bytesPerTexel := 4
	placement, err := place(heap, width*height*bytesPerTexel, 512)
	if err != nil {
		return nil, err
	}
	tex, err := g.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     name,
		Usage:     usage | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("backend: create texture %q: %w", name, err)
	}
	return &Texture{handle: tex, Width: width, Height: height, Format: format, Placement: placement}, nil
}

// WriteUploadBuffer copies data into an SysRamCpuToGpu/VramCpuToGpu buffer,
// matching write_cpu_upload_buffer's memcpy into the mapped resource.
// cogentcore/webgpu has no persistently-mapped upload heap, so the copy
// goes through queue.WriteBuffer the same way InitMeshBuffers does.
func (g *GPU) WriteUploadBuffer(dst *Buffer, offset uint64, data []byte) {
	g.queue.WriteBuffer(dst.handle, offset, data)
}

// Destroy releases the underlying wgpu buffer. The virtual offset range
// inside its Heap is not reclaimed, and Heap has no reset: offsets are
// only ever handed out once per Heap.
func (b *Buffer) Destroy() { b.handle.Release() }

// Destroy releases the underlying wgpu texture.
func (t *Texture) Destroy() { t.handle.Release() }
