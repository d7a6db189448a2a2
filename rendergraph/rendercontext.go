package rendergraph

import (
	"fmt"

	"github.com/Carmen-Shannon/athena/backend"
	"github.com/cogentcore/webgpu/wgpu"
)

// RenderContext is the API a pass Handler is given, matching spec §4.8's
// RenderContext verb list: clear RTV/DSV, set PSO, set index/vertex
// buffer, viewport/scissor, om_set_render_targets, bindless
// bind-shader-resource-table, draw/dispatch, and write_cpu_upload_buffer.
// It resolves every handle a pass touches through the executor's
// PhysicalResources rather than exposing backend.GPU directly, so a pass
// reaches GPU resources only through render-graph handles. Handles are
// not checked against the reads and writes the pass declared on its own
// PassBuilder: any resource recorded in the Builder resolves.
type RenderContext struct {
	cmd       *backend.CmdList
	resources *PhysicalResources
	builder   *Builder
	frame     uint64
}

// ClearRenderTarget stages a clear-to-color for the render target at
// index, consumed by the next BeginRenderPass.
func (c *RenderContext) ClearRenderTarget(index int, r, g, b, a float64) {
	c.cmd.ClearRenderTarget(index, r, g, b, a)
}

// ClearDepthStencil stages a clear-to-value for the bound depth-stencil
// target.
func (c *RenderContext) ClearDepthStencil(depth float32, stencil uint32) {
	c.cmd.ClearDepthStencil(depth, stencil)
}

// SetRenderTargets binds rtvs and an optional dsv and opens the render
// pass, matching om_set_render_targets.
func (c *RenderContext) SetRenderTargets(rtvs []RgRtv, dsv *RgDsv) error {
	views := make([]*backend.View, len(rtvs))
	for i, h := range rtvs {
		v, err := c.resources.ResolveRTV(c.builder, h.Handle, c.frame)
		if err != nil {
			return err
		}
		views[i] = v
	}
	var depthView *backend.View
	if dsv != nil {
		v, err := c.resources.ResolveDSV(c.builder, dsv.Handle, c.frame)
		if err != nil {
			return err
		}
		depthView = v
	}
	c.cmd.SetRenderTargets(views, depthView)
	return c.cmd.BeginRenderPass()
}

// SetPSO binds the pipeline state for subsequent draw/dispatch calls.
func (c *RenderContext) SetPSO(pso *backend.PSO) { c.cmd.SetPSO(pso) }

// SetVertexBuffer binds vb at slot, matching set_vertex_buffer.
func (c *RenderContext) SetVertexBuffer(slot uint32, vb RgVertexBuffer) error {
	buf, err := c.resources.ResolveBuffer(c.builder, vb.Handle, c.frame, false)
	if err != nil {
		return err
	}
	c.cmd.SetVertexBuffer(slot, buf, 0)
	return nil
}

// SetIndexBuffer binds ib as the current index buffer, matching
// set_index_buffer. Indices are always treated as uint32, matching the
// teacher's DrawCall usage.
func (c *RenderContext) SetIndexBuffer(ib RgIndexBuffer) error {
	buf, err := c.resources.ResolveBuffer(c.builder, ib.Handle, c.frame, false)
	if err != nil {
		return err
	}
	c.cmd.SetIndexBuffer(buf, wgpu.IndexFormatUint32, 0)
	return nil
}

// SetViewport sets the current render pass's viewport.
func (c *RenderContext) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	c.cmd.SetViewport(x, y, w, h, minDepth, maxDepth)
}

// SetScissor sets the current render pass's scissor rect.
func (c *RenderContext) SetScissor(x, y, w, h uint32) {
	c.cmd.SetScissor(x, y, w, h)
}

// BindShaderResourceTable flattens table's DescriptorIndex fields into the
// bindless root table and binds it, matching bind_shader_resource_table.
func (c *RenderContext) BindShaderResourceTable(layout *wgpu.BindGroupLayout, table any) error {
	_, err := c.cmd.BindShaderResourceTable(layout, table)
	return err
}

// Draw issues a non-indexed draw.
func (c *RenderContext) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	c.cmd.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

// DrawIndexed issues an indexed draw.
func (c *RenderContext) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	c.cmd.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

// Dispatch issues a compute dispatch.
func (c *RenderContext) Dispatch(x, y, z uint32) {
	c.cmd.Dispatch(x, y, z)
}

// DispatchRays always fails: the webgpu backend has no ray-tracing stage.
func (c *RenderContext) DispatchRays() error {
	return c.cmd.DispatchRays()
}

// WriteUploadBuffer copies data into dst's upload-visible physical buffer,
// matching write_cpu_upload_buffer's memcpy into the mapped resource.
func (c *RenderContext) WriteUploadBuffer(dst RgByteAddressBuffer, offset uint64, data []byte) error {
	buf, err := c.resources.ResolveBuffer(c.builder, dst.Handle, c.frame, true)
	if err != nil {
		return fmt.Errorf("rendergraph: write upload buffer: %w", err)
	}
	c.resources.gpu.WriteUploadBuffer(buf, offset, data)
	return nil
}
