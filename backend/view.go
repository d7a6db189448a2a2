package backend

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ViewKind is the descriptor type a View was created as, matching the
// DescriptorType enum create_cbv/create_srv/create_uav/create_rtv/
// create_dsv each produce one of.
type ViewKind uint8

const (
	ViewCBV ViewKind = iota
	ViewSRV
	ViewUAV
	ViewRTV
	ViewDSV
)

func (k ViewKind) String() string {
	switch k {
	case ViewCBV:
		return "CBV"
	case ViewSRV:
		return "SRV"
	case ViewUAV:
		return "UAV"
	case ViewRTV:
		return "RTV"
	case ViewDSV:
		return "DSV"
	default:
		return fmt.Sprintf("ViewKind(%d)", k)
	}
}

// View is a descriptor over a placed Buffer or Texture. Exactly one of
// Texture/Buffer is set. wgpu has no descriptor-heap object of its own —
// texture views are real wgpu.TextureView handles, while buffer views
// (CBV/SRV/UAV) only need the binding type and byte range recorded here,
// since a bind group entry is built from that at draw time.
type View struct {
	Kind ViewKind

	TextureView *wgpu.TextureView
	Texture     *Texture

	Buffer       *Buffer
	BufferOffset uint64
	BufferSize   uint64
}

// CreateRTV creates a render-target view over tex, matching create_rtv.
func (g *GPU) CreateRTV(tex *Texture) (*View, error) {
	tv, err := tex.handle.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("backend: create RTV: %w", err)
	}
	return &View{Kind: ViewRTV, TextureView: tv, Texture: tex}, nil
}

// CreateDSV creates a depth-stencil view over tex, matching create_dsv.
func (g *GPU) CreateDSV(tex *Texture) (*View, error) {
	tv, err := tex.handle.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("backend: create DSV: %w", err)
	}
	return &View{Kind: ViewDSV, TextureView: tv, Texture: tex}, nil
}

// CreateSRVTexture creates a shader-resource view over tex, matching
// create_srv's texture overload.
func (g *GPU) CreateSRVTexture(tex *Texture) (*View, error) {
	tv, err := tex.handle.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("backend: create texture SRV: %w", err)
	}
	return &View{Kind: ViewSRV, TextureView: tv, Texture: tex}, nil
}

// CreateUAVTexture creates an unordered-access view over tex, matching
// create_uav's texture overload.
func (g *GPU) CreateUAVTexture(tex *Texture) (*View, error) {
	tv, err := tex.handle.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("backend: create texture UAV: %w", err)
	}
	return &View{Kind: ViewUAV, TextureView: tv, Texture: tex}, nil
}

// CreateCBV creates a constant-buffer view over buf[offset:offset+size],
// matching create_cbv.
func (g *GPU) CreateCBV(buf *Buffer, offset, size uint64) *View {
	return &View{Kind: ViewCBV, Buffer: buf, BufferOffset: offset, BufferSize: size}
}

// CreateSRVBuffer creates a structured-buffer shader-resource view,
// matching create_srv's buffer overload.
func (g *GPU) CreateSRVBuffer(buf *Buffer, offset, size uint64) *View {
	return &View{Kind: ViewSRV, Buffer: buf, BufferOffset: offset, BufferSize: size}
}

// CreateUAVBuffer creates an unordered-access view over a buffer, matching
// create_uav's buffer overload.
func (g *GPU) CreateUAVBuffer(buf *Buffer, offset, size uint64) *View {
	return &View{Kind: ViewUAV, Buffer: buf, BufferOffset: offset, BufferSize: size}
}

// bindGroupEntry lowers a buffer-backed View to the bind group entry a
// command list's bindless table binds, matching InitBindGroup's entry
// construction.
func (v *View) bindGroupEntry(binding uint32) wgpu.BindGroupEntry {
	return wgpu.BindGroupEntry{
		Binding: binding,
		Buffer:  v.Buffer.handle,
		Offset:  v.BufferOffset,
		Size:    v.BufferSize,
	}
}
