package rendergraph

import (
	"context"
	"testing"

	"github.com/Carmen-Shannon/athena/backend"
	"github.com/cogentcore/webgpu/wgpu"
)

// TestExecuteResolvesBackBufferEndToEnd drives a compiled graph through
// Execute with a single pass that writes the back buffer via
// RenderContext.SetRenderTargets. That call runs SetRenderTargets ->
// ResolveRTV -> ResolveTexture, which must find the externally-bound
// back buffer texture under physicalKey{id: BackBufferID, frame: 0}
// rather than falling through to a resource descriptor lookup that was
// never populated for it. Regression test for nextHandle handing the
// back buffer (the first handle NewBuilder mints) ID 1 instead of 0.
//
// Requires a usable wgpu adapter; skips if the fallback adapter cannot
// be created (no GPU or software rasterizer available in the
// environment running the test).
func TestExecuteResolvesBackBufferEndToEnd(t *testing.T) {
	gpu, err := backend.New(backend.WithForceFallbackAdapter(true))
	if err != nil {
		t.Skipf("no GPU adapter available: %v", err)
	}

	b := NewBuilder(64, 64)
	ran := false
	pass := b.AddPass("clear back buffer", nil, func(ctx *RenderContext, data any) {
		if err := ctx.SetRenderTargets([]RgRtv{{Handle: b.BackBuffer}}, nil); err != nil {
			t.Errorf("SetRenderTargets: %v", err)
			return
		}
		ctx.ClearRenderTarget(0, 0, 0, 0, 1)
		ran = true
	})
	b.BackBuffer = pass.WriteTexture(b.BackBuffer, WriteTextureColorTarget)

	g := Compile(b)

	resources := NewPhysicalResources(gpu, 1<<20, 1<<20, 1<<16)
	backBuffer, err := gpu.PlaceTexture(resources.local, "back buffer", 64, 64, wgpu.TextureFormatRGBA8Unorm, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		t.Fatalf("place back buffer: %v", err)
	}

	exec := NewExecutor(gpu, resources)
	if err := exec.Execute(context.Background(), b, g, 0, backBuffer, nil, 0); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !ran {
		t.Fatal("pass handler never ran")
	}
}
