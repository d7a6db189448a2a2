package backend

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// PSOKind distinguishes the three pipeline shapes spec §6 names, matching
// the source's PipelineType enum.
type PSOKind uint8

const (
	PSOGraphics PSOKind = iota
	PSOCompute
	PSORayTracing
)

// PSO is a created pipeline state object, wrapping whichever concrete wgpu
// pipeline RegisterRenderPipeline/RegisterComputePipeline would have
// produced.
type PSO struct {
	Kind     PSOKind
	render   *wgpu.RenderPipeline
	compute  *wgpu.ComputePipeline
}

// GraphicsPSODesc describes a graphics PSO, generalizing
// RegisterRenderPipeline's ad-hoc wgpu.RenderPipelineDescriptor assembly
// into a reusable shape.
type GraphicsPSODesc struct {
	Label string

	VertexWGSL   string
	VertexEntry  string
	FragmentWGSL string
	FragmentEntry string

	VertexBuffers []wgpu.VertexBufferLayout
	ColorFormats  []wgpu.TextureFormat
	HasDepth      bool
	DepthFormat   wgpu.TextureFormat
	DepthWrite    bool

	Topology  wgpu.PrimitiveTopology
	CullMode  wgpu.CullMode
	FrontFace wgpu.FrontFace

	BindGroupLayouts []*wgpu.BindGroupLayout
}

// ComputePSODesc describes a compute PSO, generalizing
// RegisterComputePipeline's assembly.
type ComputePSODesc struct {
	Label            string
	WGSL             string
	EntryPoint       string
	BindGroupLayouts []*wgpu.BindGroupLayout
}

// CreateGraphicsPSO compiles and links a graphics pipeline, matching
// create_pso's graphics variant / RegisterRenderPipeline.
func (g *GPU) CreateGraphicsPSO(desc GraphicsPSODesc) (*PSO, error) {
	vs, err := g.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label + " VS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.VertexWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("backend: compile vertex shader %q: %w", desc.Label, err)
	}
	fs, err := g.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label + " FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.FragmentWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("backend: compile fragment shader %q: %w", desc.Label, err)
	}

	layout, err := g.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: desc.BindGroupLayouts,
	})
	if err != nil {
		return nil, fmt.Errorf("backend: pipeline layout %q: %w", desc.Label, err)
	}

	targets := make([]wgpu.ColorTargetState, len(desc.ColorFormats))
	for i, f := range desc.ColorFormats {
		targets[i] = wgpu.ColorTargetState{Format: f, WriteMask: wgpu.ColorWriteMaskAll}
	}

	var depthStencil *wgpu.DepthStencilState
	if desc.HasDepth {
		depthStencil = &wgpu.DepthStencilState{
			Format:            desc.DepthFormat,
			DepthWriteEnabled: desc.DepthWrite,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}

	pipeline, err := g.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: desc.VertexEntry,
			Buffers:    desc.VertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: desc.FragmentEntry,
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  desc.Topology,
			FrontFace: desc.FrontFace,
			CullMode:  desc.CullMode,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		DepthStencil: depthStencil,
	})
	if err != nil {
		return nil, fmt.Errorf("backend: create render pipeline %q: %w", desc.Label, err)
	}
	return &PSO{Kind: PSOGraphics, render: pipeline}, nil
}

// CreateComputePSO compiles and links a compute pipeline, matching
// create_pso's compute variant / RegisterComputePipeline.
func (g *GPU) CreateComputePSO(desc ComputePSODesc) (*PSO, error) {
	s, err := g.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.WGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("backend: compile compute shader %q: %w", desc.Label, err)
	}
	layout, err := g.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: desc.BindGroupLayouts,
	})
	if err != nil {
		return nil, fmt.Errorf("backend: pipeline layout %q: %w", desc.Label, err)
	}
	pipeline, err := g.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     s,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("backend: create compute pipeline %q: %w", desc.Label, err)
	}
	return &PSO{Kind: PSOCompute, compute: pipeline}, nil
}

// ErrRayTracingUnsupported is returned by CreateRayTracingPSO: the backend
// is cogentcore/webgpu, which has no ray-tracing pipeline stage. Callers
// that branch on PSOKind in a platform-independent way should treat this
// as "collaborator declined," the same way the opaque-backend boundary in
// spec §1's Non-goals treats D3D12 device creation.
var ErrRayTracingUnsupported = errors.New("backend: ray-tracing PSOs are not supported by the webgpu backend")

// CreateRayTracingPSO always fails on this backend; present only so
// callers written against the full three-PSOKind surface compile.
func (g *GPU) CreateRayTracingPSO() (*PSO, error) {
	return nil, ErrRayTracingUnsupported
}

// Destroy releases the underlying wgpu pipeline.
func (p *PSO) Destroy() {
	switch p.Kind {
	case PSOGraphics:
		p.render.Release()
	case PSOCompute:
		p.compute.Release()
	}
}
