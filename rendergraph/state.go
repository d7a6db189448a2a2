package rendergraph

// ResourceState is the physical resource state barriers transition
// between, a trimmed-down stand-in for D3D12_RESOURCE_STATES sized to
// what backend.GPU actually exposes over cogentcore/webgpu. States
// combine by bitwise OR within a single dependency level exactly as the
// source does — a resource read by two passes in the same level ends
// up in the union of both states.
type ResourceState uint32

const StateCommon ResourceState = 0

const (
	StateVertexConstantBuffer ResourceState = 1 << iota
	StateIndexBuffer
	StateIndirectArgument
	StatePixelShaderResource
	StateNonPixelShaderResource
	StateCopySource
	StateCopyDest
	StateRenderTarget
	StateDepthWrite
	StateDepthRead
	StateUnorderedAccess
)

// resourceState maps one ResourceAccess entry to the physical state it
// requires, matching get_d3d12_resource_state.
func resourceState(a ResourceAccess) ResourceState {
	if a.Handle.Type == ResourceBuffer {
		if !a.IsWrite {
			access := ReadBufferAccess(a.Access)
			var s ResourceState
			if access&(ReadBufferVertex|ReadBufferCbv) != 0 {
				s |= StateVertexConstantBuffer
			}
			if access&ReadBufferIndex != 0 {
				s |= StateIndexBuffer
			}
			if access&ReadBufferIndirectArgs != 0 {
				s |= StateIndirectArgument
			}
			if access&ReadBufferSrvPixelShader != 0 {
				s |= StatePixelShaderResource
			}
			if access&ReadBufferSrvNonPixelShader != 0 {
				s |= StateNonPixelShaderResource
			}
			if access&ReadBufferCopySrc != 0 {
				s |= StateCopySource
			}
			return s
		}
		if WriteBufferAccess(a.Access) == WriteBufferUav {
			return StateUnorderedAccess
		}
		panic("rendergraph: unreachable buffer write access")
	}

	if !a.IsWrite {
		access := ReadTextureAccess(a.Access)
		var s ResourceState
		if access&ReadTextureDepthStencil != 0 {
			s |= StateDepthRead
		}
		if access&ReadTextureSrvPixelShader != 0 {
			s |= StatePixelShaderResource
		}
		if access&ReadTextureSrvNonPixelShader != 0 {
			s |= StateNonPixelShaderResource
		}
		if access&ReadTextureCopySrc != 0 {
			s |= StateCopySource
		}
		return s
	}

	switch WriteTextureAccess(a.Access) {
	case WriteTextureDepthStencil:
		return StateDepthWrite
	case WriteTextureColorTarget:
		return StateRenderTarget
	case WriteTextureUav:
		return StateUnorderedAccess
	case WriteTextureCopyDst:
		return StateCopyDest
	default:
		panic("rendergraph: unreachable texture write access")
	}
}
