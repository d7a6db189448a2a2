package backend

import (
	"fmt"
	"reflect"

	"github.com/cogentcore/webgpu/wgpu"
)

// CmdListType mirrors CmdQueueType (graphics.h): which queue a command
// list is eventually submitted to. wgpu exposes a single queue, so the kind
// is only recorded on the CmdList: BeginRenderPass and BeginComputePass do
// not check it, and Submit always goes through the one GPU.queue.
type CmdListType uint8

const (
	CmdListGraphics CmdListType = iota
	CmdListCompute
	CmdListCopy
)

// clearTarget stages a render-target clear recorded before BeginRenderPass,
// since wgpu only clears an attachment at pass-begin time via its LoadOp
// rather than through a mid-pass clear call.
type clearTarget struct {
	color [4]float64
	clear bool
}

// CmdList is a single recorded command list, matching CmdList/ID3D12GraphicsCommandList
// generalized over wgpu's encoder/pass-encoder split: one CommandEncoder
// records the whole list, and BeginRenderPass/BeginComputePass each open
// one of wgpu's pass encoders in turn, matching the source's single
// ID3D12GraphicsCommandList recording both render and compute blocks.
type CmdList struct {
	kind    CmdListType
	gpu     *GPU
	encoder *wgpu.CommandEncoder

	renderPass  *wgpu.RenderPassEncoder
	computePass *wgpu.ComputePassEncoder

	colorTargets []*View
	depthTarget  *View
	colorClears  []clearTarget
	depthClear   *float32
	stencilClear *uint32
}

// AllocCmdList opens a new command list over a freshly created command
// encoder (there is no pool of reusable lists), matching
// cmd_list_allocator_alloc (spec §6: "allocate/free command list").
func (g *GPU) AllocCmdList(kind CmdListType) (*CmdList, error) {
	enc, err := g.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("backend: alloc command list: %w", err)
	}
	return &CmdList{kind: kind, gpu: g, encoder: enc}, nil
}

// SetRenderTargets binds the render-target and optional depth-stencil
// views for the render pass BeginRenderPass will open, matching
// om_set_render_targets.
func (c *CmdList) SetRenderTargets(color []*View, depth *View) {
	c.colorTargets = color
	c.colorClears = make([]clearTarget, len(color))
	c.depthTarget = depth
}

// ClearRenderTarget stages a clear-to-color for the render target at
// index, consumed by the next BeginRenderPass, matching clear_rtv.
func (c *CmdList) ClearRenderTarget(index int, r, g, b, a float64) {
	c.colorClears[index] = clearTarget{color: [4]float64{r, g, b, a}, clear: true}
}

// ClearDepthStencil stages a clear-to-value for the bound depth-stencil
// view, matching clear_dsv. BeginRenderPass applies only the depth clear;
// the stencil value is recorded but no stencil clear is issued.
func (c *CmdList) ClearDepthStencil(depth float32, stencil uint32) {
	c.depthClear = &depth
	c.stencilClear = &stencil
}

// BeginRenderPass opens the render pass using the targets SetRenderTargets
// recorded and any staged clears, matching BeginPass's render-pass mode.
func (c *CmdList) BeginRenderPass() error {
	attachments := make([]wgpu.RenderPassColorAttachment, len(c.colorTargets))
	for i, v := range c.colorTargets {
		loadOp := wgpu.LoadOpLoad
		clear := wgpu.Color{}
		if c.colorClears[i].clear {
			loadOp = wgpu.LoadOpClear
			cc := c.colorClears[i].color
			clear = wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}
		}
		attachments[i] = wgpu.RenderPassColorAttachment{
			View:       v.TextureView,
			LoadOp:     loadOp,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear,
		}
	}

	desc := &wgpu.RenderPassDescriptor{ColorAttachments: attachments}
	if c.depthTarget != nil {
		dsAttachment := wgpu.RenderPassDepthStencilAttachment{View: c.depthTarget.TextureView}
		if c.depthClear != nil {
			dsAttachment.DepthLoadOp = wgpu.LoadOpClear
			dsAttachment.DepthClearValue = *c.depthClear
		} else {
			dsAttachment.DepthLoadOp = wgpu.LoadOpLoad
		}
		dsAttachment.DepthStoreOp = wgpu.StoreOpStore
		desc.DepthStencilAttachment = &dsAttachment
	}

	c.renderPass = c.encoder.BeginRenderPass(desc)
	c.depthClear = nil
	c.stencilClear = nil
	return nil
}

// EndRenderPass closes the currently open render pass, matching EndPass.
func (c *CmdList) EndRenderPass() { c.renderPass.End(); c.renderPass = nil }

// InRenderPass reports whether a render pass is currently open, letting a
// caller close out a pass a Handler forgot to End itself.
func (c *CmdList) InRenderPass() bool { return c.renderPass != nil }

// BeginComputePass opens a compute pass, matching BeginWork.
func (c *CmdList) BeginComputePass() {
	c.computePass = c.encoder.BeginComputePass(nil)
}

// EndComputePass closes the currently open compute pass, matching EndWork.
func (c *CmdList) EndComputePass() { c.computePass.End(); c.computePass = nil }

// SetPSO binds the pipeline state for subsequent draw/dispatch calls,
// matching set_pso.
func (c *CmdList) SetPSO(pso *PSO) {
	switch pso.Kind {
	case PSOGraphics:
		c.renderPass.SetPipeline(pso.render)
	case PSOCompute:
		c.computePass.SetPipeline(pso.compute)
	}
}

// SetVertexBuffer binds buf at slot for the current render pass, matching
// set_vertex_buffer (spec's RgVertexBuffer handle resolves to this).
func (c *CmdList) SetVertexBuffer(slot uint32, buf *Buffer, offset uint64) {
	c.renderPass.SetVertexBuffer(slot, buf.handle, offset, wgpu.WholeSize)
}

// SetIndexBuffer binds buf as the current render pass's index buffer,
// matching set_index_buffer.
func (c *CmdList) SetIndexBuffer(buf *Buffer, format wgpu.IndexFormat, offset uint64) {
	c.renderPass.SetIndexBuffer(buf.handle, format, offset, wgpu.WholeSize)
}

// SetViewport sets the current render pass's viewport, matching
// set_viewport.
func (c *CmdList) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	c.renderPass.SetViewport(x, y, w, h, minDepth, maxDepth)
}

// SetScissor sets the current render pass's scissor rect, matching
// set_scissor.
func (c *CmdList) SetScissor(x, y, w, h uint32) {
	c.renderPass.SetScissorRect(x, y, w, h)
}

// bindlessTable holds the small uniform buffer a BindShaderResourceTable
// call writes its flattened descriptor indices into, plus the bind group
// wrapping it at group 0 — wgpu's stand-in for root 32-bit constants,
// since the binding exposes no native push-constant range.
type bindlessTable struct {
	buffer *Buffer
	group  *wgpu.BindGroup
}

// BindShaderResourceTable flattens every DescriptorIndex field of table
// (which must be a struct or a pointer to one) into a little-endian u32
// array and uploads it as the bindless root table, matching
// bind_shader_resource_table's POD-to-root-constants flattening.
func (c *CmdList) BindShaderResourceTable(layout *wgpu.BindGroupLayout, table any) (*bindlessTable, error) {
	v := reflect.ValueOf(table)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("backend: shader resource table must be a struct, got %s", v.Kind())
	}

	indices := make([]uint32, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		idx, ok := f.Interface().(DescriptorIndex)
		if !ok {
			return nil, fmt.Errorf("backend: shader resource table field %s is not a DescriptorIndex", v.Type().Field(i).Name)
		}
		indices = append(indices, uint32(idx))
	}

	raw := make([]byte, len(indices)*4)
	for i, idx := range indices {
		raw[i*4+0] = byte(idx)
		raw[i*4+1] = byte(idx >> 8)
		raw[i*4+2] = byte(idx >> 16)
		raw[i*4+3] = byte(idx >> 24)
	}

	buf, err := c.gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "bindless root table",
		Size:  uint64(len(raw)),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("backend: create root table buffer: %w", err)
	}
	c.gpu.queue.WriteBuffer(buf, 0, raw)

	group, err := c.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "bindless root table",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: uint64(len(raw))},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("backend: create root table bind group: %w", err)
	}

	if c.renderPass != nil {
		c.renderPass.SetBindGroup(0, group, nil)
	} else if c.computePass != nil {
		c.computePass.SetBindGroup(0, group, nil)
	}

	return &bindlessTable{buffer: &Buffer{handle: buf}, group: group}, nil
}

// Draw issues a non-indexed draw, matching draw.
func (c *CmdList) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	c.renderPass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

// DrawIndexed issues an indexed draw, matching draw_indexed.
func (c *CmdList) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	c.renderPass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

// Dispatch issues a compute dispatch, matching dispatch.
func (c *CmdList) Dispatch(x, y, z uint32) {
	c.computePass.DispatchWorkgroups(x, y, z)
}

// DispatchRays always fails on this backend, matching CreateRayTracingPSO's
// unsupported-collaborator stance.
func (c *CmdList) DispatchRays() error {
	return ErrRayTracingUnsupported
}

// finish ends recording and returns the command buffer ready for Submit,
// matching the source's CmdList::End.
func (c *CmdList) finish() (*wgpu.CommandBuffer, error) {
	cb, err := c.encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("backend: finish command list: %w", err)
	}
	return cb, nil
}

// Free releases the command list's encoder without submitting it, matching
// cmd_list_allocator_free.
func (c *CmdList) Free() {
	if c.encoder != nil {
		c.encoder.Release()
	}
}
