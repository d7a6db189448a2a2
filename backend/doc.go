// Package backend is the opaque GPU device API the render graph executor
// drives: fences, linear heaps, placed buffers/textures, CBV/SRV/UAV/RTV/DSV
// views, graphics/compute PSOs, and command list recording/submission.
//
// The job system never imports cogentcore/webgpu. The render graph creates
// and records GPU work only through this package's types, mirroring how
// render_graph.cpp only ever calls through Graphics::Device in the source,
// but it still imports wgpu for its plain enums and layouts (texture
// formats, usage flags, index formats, bind group layouts).
// GPU is the one concrete implementation, grounded on
// engine/renderer/wgpu_renderer_backend.go generalized to the fuller verb
// set original_source/Code/Core/Engine/Render/graphics.h exposes (GpuFence,
// CmdQueue/CmdList, GpuHeapType, GpuResourceHeap) and on
// gviegas-neo3/driver/core.go's GPU/CmdBuffer/Buffer/Image interfaces, which
// model the same placed-resource, descriptor-heap shaped device surface more
// completely than the teacher's own backend does.
//
// cogentcore/webgpu has no placed-resource heap of its own — buffer and
// texture memory is allocated by the driver per wgpu.Device.CreateBuffer/
// CreateTexture call, not carved out of a caller-owned heap the way D3D12's
// CreatePlacedResource works. Heap and offset bookkeeping here is therefore
// advisory: it lets the render graph's physical-placement step reason about
// aliasing and location the way spec §4.7 expects, while the actual wgpu
// resource is still a full, independent allocation underneath. Location
// otherwise only steers CPU-visibility flags on the created resource.
package backend
