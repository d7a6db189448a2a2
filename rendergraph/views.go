package rendergraph

// The types below are typed wrappers over a ResourceHandle, one per shader
// resource shape, matching render_graph.h's RgTexture2D<T>/RgRWBuffer<T>/
// RgConstantBuffer<T>/RgByteAddressBuffer/RgRtv/RgDsv/RgIndexBuffer/
// RgVertexBuffer templates. T is a phantom type carried only so a pass's Go
// code can't accidentally pass an RgRWBuffer[Particle] where an
// RgConstantBuffer[Camera] was declared; none of them add behavior beyond
// the handle itself; actual resolution to a backend.Buffer/backend.Texture
// happens in PhysicalResources.

// RgTexture2D is a read-only or render-target 2D texture view.
type RgTexture2D[T any] struct {
	Handle ResourceHandle
}

// RgRWBuffer is an unordered-access (read/write) structured buffer view of
// elements of type T.
type RgRWBuffer[T any] struct {
	Handle ResourceHandle
}

// RgConstantBuffer is a CBV over a single value of type T.
type RgConstantBuffer[T any] struct {
	Handle ResourceHandle
}

// RgByteAddressBuffer is an untyped raw buffer view, matching the source's
// ByteAddressBuffer shader resource shape (no element type to parameterize
// on).
type RgByteAddressBuffer struct {
	Handle ResourceHandle
}

// RgRtv is a render-target view handle.
type RgRtv struct {
	Handle ResourceHandle
}

// RgDsv is a depth-stencil view handle.
type RgDsv struct {
	Handle ResourceHandle
}

// RgIndexBuffer is an index buffer view handle.
type RgIndexBuffer struct {
	Handle ResourceHandle
}

// RgVertexBuffer is a vertex buffer view handle.
type RgVertexBuffer struct {
	Handle ResourceHandle
}
