package rendergraph

import (
	"fmt"

	"github.com/Carmen-Shannon/athena/backend"
	"github.com/cogentcore/webgpu/wgpu"
)

var textureFormats = map[string]wgpu.TextureFormat{
	"rgba8unorm":     wgpu.TextureFormatRGBA8Unorm,
	"rgba8unormsrgb": wgpu.TextureFormatRGBA8UnormSrgb,
	"bgra8unorm":     wgpu.TextureFormatBGRA8Unorm,
	"rgba16float":    wgpu.TextureFormatRGBA16Float,
	"r32float":       wgpu.TextureFormatR32Float,
	"depth24plus":    wgpu.TextureFormatDepth24Plus,
	"depth32float":   wgpu.TextureFormatDepth32Float,
}

func textureFormat(name string) (wgpu.TextureFormat, error) {
	f, ok := textureFormats[name]
	if !ok {
		return 0, fmt.Errorf("rendergraph: unknown texture format %q", name)
	}
	return f, nil
}

func isDepthFormat(f wgpu.TextureFormat) bool {
	return f == wgpu.TextureFormatDepth24Plus || f == wgpu.TextureFormatDepth32Float
}

// physicalKey identifies one temporal instance of a virtual resource,
// matching the source's per-(id, temporal-frame) physical resource table.
type physicalKey struct {
	id    uint32
	frame uint64
}

// temporalSlot maps a frame counter onto a handle's physical instance,
// matching init_physical_resources' `frame_id mod (temporal_lifetime+1)`.
func temporalSlot(h ResourceHandle, frame uint64) uint64 {
	if h.TemporalLifetime == TemporalLifetimeInfinite {
		return 0
	}
	return frame % uint64(h.TemporalLifetime+1)
}

// resourceUsage ORs together every access mask recorded against id across
// every pass in b, matching spec §4.7 step 5's resource-flag inference.
func resourceUsage(b *Builder, id uint32, isTexture bool) (wgpu.TextureUsage, wgpu.BufferUsage) {
	var texUsage wgpu.TextureUsage
	var bufUsage wgpu.BufferUsage

	accumulate := func(a ResourceAccess) {
		if a.Handle.ID != id {
			return
		}
		if isTexture {
			if a.IsWrite {
				switch WriteTextureAccess(a.Access) {
				case WriteTextureDepthStencil:
					texUsage |= wgpu.TextureUsageRenderAttachment
				case WriteTextureColorTarget:
					texUsage |= wgpu.TextureUsageRenderAttachment
				case WriteTextureUav:
					texUsage |= wgpu.TextureUsageStorageBinding
				case WriteTextureCopyDst:
					texUsage |= wgpu.TextureUsageCopyDst
				}
				return
			}
			access := ReadTextureAccess(a.Access)
			if access&(ReadTextureSrvPixelShader|ReadTextureSrvNonPixelShader|ReadTextureDepthStencil) != 0 {
				texUsage |= wgpu.TextureUsageTextureBinding
			}
			if access&ReadTextureCopySrc != 0 {
				texUsage |= wgpu.TextureUsageCopySrc
			}
			return
		}

		if a.IsWrite {
			bufUsage |= wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
			return
		}
		access := ReadBufferAccess(a.Access)
		if access&ReadBufferVertex != 0 {
			bufUsage |= wgpu.BufferUsageVertex
		}
		if access&ReadBufferIndex != 0 {
			bufUsage |= wgpu.BufferUsageIndex
		}
		if access&ReadBufferCbv != 0 {
			bufUsage |= wgpu.BufferUsageUniform
		}
		if access&ReadBufferIndirectArgs != 0 {
			bufUsage |= wgpu.BufferUsageIndirect
		}
		if access&(ReadBufferSrvPixelShader|ReadBufferSrvNonPixelShader) != 0 {
			bufUsage |= wgpu.BufferUsageStorage
		}
		if access&ReadBufferCopySrc != 0 {
			bufUsage |= wgpu.BufferUsageCopySrc
		}
	}

	for _, pass := range b.Passes {
		for _, r := range pass.ReadResources {
			accumulate(r)
		}
		for _, w := range pass.WriteResources {
			accumulate(w)
		}
	}
	return texUsage, bufUsage
}

// PhysicalResources places a Builder's virtual resources onto concrete
// backend heaps and caches the result per (id, temporal frame), matching
// init_physical_resources / RenderGraph's physical resource table.
type PhysicalResources struct {
	gpu *backend.GPU

	local    *backend.Heap // GpuLocal, reused every frame for non-temporal resources
	temporal *backend.Heap // GpuLocal, for resources with a finite, non-zero temporal lifetime
	upload   *backend.Heap // SysRamCpuToGpu, for resources a pass writes from the CPU

	textures map[physicalKey]*backend.Texture
	buffers  map[physicalKey]*backend.Buffer
	rtvs     map[physicalKey]*backend.View
	dsvs     map[physicalKey]*backend.View
}

// NewPhysicalResources reserves three heaps of the sizes the caller passes
// and returns an empty placement cache. Nothing derives the sizes from a
// compiled Graph; NewExecutor takes the finished table as given.
func NewPhysicalResources(gpu *backend.GPU, localSize, temporalSize, uploadSize int) *PhysicalResources {
	return &PhysicalResources{
		gpu:      gpu,
		local:    gpu.AllocHeap(backend.GpuLocal, localSize),
		temporal: gpu.AllocHeap(backend.GpuLocal, temporalSize),
		upload:   gpu.AllocHeap(backend.SysRamCpuToGpu, uploadSize),
		textures: make(map[physicalKey]*backend.Texture),
		buffers:  make(map[physicalKey]*backend.Buffer),
		rtvs:     make(map[physicalKey]*backend.View),
		dsvs:     make(map[physicalKey]*backend.View),
	}
}

// BindBackBuffer registers an externally-acquired swap-chain texture as the
// graph's back buffer physical resource, matching execute_render_graph
// step 1's "bind the back buffer's physical texture ... at (id=0,
// temporal=0)."
func (p *PhysicalResources) BindBackBuffer(tex *backend.Texture) {
	p.textures[physicalKey{id: BackBufferID, frame: 0}] = tex
}

func (p *PhysicalResources) heapFor(h ResourceHandle) *backend.Heap {
	switch {
	case h.TemporalLifetime == 0 || h.TemporalLifetime == TemporalLifetimeInfinite:
		return p.local
	default:
		return p.temporal
	}
}

// ResolveTexture returns h's physical texture for frame, placing it on
// first use.
func (p *PhysicalResources) ResolveTexture(b *Builder, h ResourceHandle, frame uint64) (*backend.Texture, error) {
	key := physicalKey{id: h.ID, frame: temporalSlot(h, frame)}
	if t, ok := p.textures[key]; ok {
		return t, nil
	}
	descAny, ok := b.ResourceDescs[h.ID]
	if !ok {
		return nil, fmt.Errorf("rendergraph: no texture descriptor recorded for resource %d", h.ID)
	}
	desc := descAny.(TextureDesc)
	format, err := textureFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	texUsage, _ := resourceUsage(b, h.ID, true)
	tex, err := p.gpu.PlaceTexture(p.heapFor(h), desc.Name, desc.Width, desc.Height, format, texUsage)
	if err != nil {
		return nil, fmt.Errorf("rendergraph: place texture %q: %w", desc.Name, err)
	}
	p.textures[key] = tex
	return tex, nil
}

// ResolveBuffer returns h's physical buffer for frame, placing it (from
// the upload heap if location is writable from the CPU) on first use.
func (p *PhysicalResources) ResolveBuffer(b *Builder, h ResourceHandle, frame uint64, fromCPU bool) (*backend.Buffer, error) {
	key := physicalKey{id: h.ID, frame: temporalSlot(h, frame)}
	if buf, ok := p.buffers[key]; ok {
		return buf, nil
	}
	descAny, ok := b.ResourceDescs[h.ID]
	if !ok {
		return nil, fmt.Errorf("rendergraph: no buffer descriptor recorded for resource %d", h.ID)
	}
	desc := descAny.(BufferDesc)
	_, bufUsage := resourceUsage(b, h.ID, false)
	heap := p.heapFor(h)
	if fromCPU {
		heap = p.upload
	}
	buf, err := p.gpu.PlaceBuffer(heap, desc.Name, desc.Size, bufUsage)
	if err != nil {
		return nil, fmt.Errorf("rendergraph: place buffer %q: %w", desc.Name, err)
	}
	p.buffers[key] = buf
	return buf, nil
}

// ResolveRTV returns (creating and caching on first use) h's render-target
// view for frame.
func (p *PhysicalResources) ResolveRTV(b *Builder, h ResourceHandle, frame uint64) (*backend.View, error) {
	key := physicalKey{id: h.ID, frame: temporalSlot(h, frame)}
	if v, ok := p.rtvs[key]; ok {
		return v, nil
	}
	tex, err := p.ResolveTexture(b, h, frame)
	if err != nil {
		return nil, err
	}
	v, err := p.gpu.CreateRTV(tex)
	if err != nil {
		return nil, err
	}
	p.rtvs[key] = v
	return v, nil
}

// ResolveDSV returns (creating and caching on first use) h's depth-stencil
// view for frame.
func (p *PhysicalResources) ResolveDSV(b *Builder, h ResourceHandle, frame uint64) (*backend.View, error) {
	key := physicalKey{id: h.ID, frame: temporalSlot(h, frame)}
	if v, ok := p.dsvs[key]; ok {
		return v, nil
	}
	tex, err := p.ResolveTexture(b, h, frame)
	if err != nil {
		return nil, err
	}
	if !isDepthFormat(tex.Format) {
		return nil, fmt.Errorf("rendergraph: resource %d is not a depth format, cannot create a DSV", h.ID)
	}
	v, err := p.gpu.CreateDSV(tex)
	if err != nil {
		return nil, err
	}
	p.dsvs[key] = v
	return v, nil
}
