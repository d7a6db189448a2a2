package rendergraph

import "testing"

func noopHandler(*RenderContext, any) {}

func findBarrier(barriers []ResourceBarrier, resourceID uint32) (ResourceBarrier, bool) {
	for _, b := range barriers {
		if b.ResourceID == resourceID {
			return b, true
		}
	}
	return ResourceBarrier{}, false
}

func levelOf(g *Graph, id PassID) int {
	for i, lvl := range g.DependencyLevels {
		for _, p := range lvl.Passes {
			if p == id {
				return i
			}
		}
	}
	return -1
}

// TestDependencyLevelsNinePassTopology builds the nine-pass manual-dependency
// topology P8->P3, P6->P3, P3->{P2,P0}, P7->P4, P5->P4, P4->P1, P1->P0,
// P2->P0 and checks every pass lands in the expected longest-path level.
func TestDependencyLevelsNinePassTopology(t *testing.T) {
	b := NewBuilder(1, 1)

	p0 := b.AddPass("P0", nil, noopHandler)
	p1 := b.AddPass("P1", nil, noopHandler)
	p2 := b.AddPass("P2", nil, noopHandler)
	p3 := b.AddPass("P3", nil, noopHandler)
	p4 := b.AddPass("P4", nil, noopHandler)
	p5 := b.AddPass("P5", nil, noopHandler)
	p6 := b.AddPass("P6", nil, noopHandler)
	p7 := b.AddPass("P7", nil, noopHandler)
	p8 := b.AddPass("P8", nil, noopHandler)

	p3.DependsOn(p8.ID)
	p3.DependsOn(p6.ID)
	p2.DependsOn(p3.ID)
	p0.DependsOn(p3.ID)
	p4.DependsOn(p7.ID)
	p4.DependsOn(p5.ID)
	p1.DependsOn(p4.ID)
	p0.DependsOn(p1.ID)
	p0.DependsOn(p2.ID)

	b.BackBuffer = p0.WriteTexture(b.BackBuffer, WriteTextureColorTarget)

	g := Compile(b)

	want := map[PassID]int{
		p8.ID: 0, p7.ID: 0, p6.ID: 0, p5.ID: 0,
		p4.ID: 1, p3.ID: 1,
		p1.ID: 2, p2.ID: 2,
		p0.ID: 3,
	}
	for id, wantLevel := range want {
		if got := levelOf(g, id); got != wantLevel {
			t.Errorf("level(pass %d) = %d, want %d", id, got, wantLevel)
		}
	}
	if len(g.DependencyLevels) != 4 {
		t.Fatalf("len(DependencyLevels) = %d, want 4", len(g.DependencyLevels))
	}
}

// TestBarrierMinimalityColorTargetThenSrv builds the two-pass case from
// the spec: A writes a texture as a color target, B reads the same
// texture as a pixel-shader SRV. The compiler must emit exactly one
// pre-barrier per level transitioning the resource, plus an exit
// barrier back to StateCommon.
func TestBarrierMinimalityColorTargetThenSrv(t *testing.T) {
	b := NewBuilder(1, 1)

	t0 := b.CreateTexture(TextureDesc{Name: "scratch", Width: 1, Height: 1}, TemporalLifetimeInfinite)

	a := b.AddPass("A", nil, noopHandler)
	t1 := a.WriteTexture(t0, WriteTextureColorTarget)
	b.BackBuffer = a.WriteTexture(b.BackBuffer, WriteTextureColorTarget)

	bPass := b.AddPass("B", nil, noopHandler)
	bPass.ReadTexture(t1, ReadTextureSrvPixelShader)

	g := Compile(b)

	if got := levelOf(g, a.ID); got != 0 {
		t.Fatalf("level(A) = %d, want 0", got)
	}
	if got := levelOf(g, bPass.ID); got != 1 {
		t.Fatalf("level(B) = %d, want 1", got)
	}

	for li := 0; li < 2; li++ {
		n := 0
		for _, br := range g.DependencyLevels[li].Barriers {
			if br.ResourceID == t0.ID {
				n++
			}
		}
		if n != 1 {
			t.Errorf("level %d has %d barriers for resource %d, want 1", li, n, t0.ID)
		}
	}

	level0Barrier, ok := findBarrier(g.DependencyLevels[0].Barriers, t0.ID)
	if !ok {
		t.Fatalf("no barrier for resource %d in level 0", t0.ID)
	}
	if level0Barrier.Before != StateCommon || level0Barrier.After != StateRenderTarget {
		t.Errorf("level 0 barrier = %d->%d, want Common->RenderTarget", level0Barrier.Before, level0Barrier.After)
	}

	level1Barrier, ok := findBarrier(g.DependencyLevels[1].Barriers, t0.ID)
	if !ok {
		t.Fatalf("no barrier for resource %d in level 1", t0.ID)
	}
	if level1Barrier.Before != StateRenderTarget || level1Barrier.After != StatePixelShaderResource {
		t.Errorf("level 1 barrier = %d->%d, want RenderTarget->PixelShaderResource", level1Barrier.Before, level1Barrier.After)
	}

	exitBarrier, ok := findBarrier(g.ExitBarriers, t0.ID)
	if !ok {
		t.Fatalf("no exit barrier for resource %d", t0.ID)
	}
	if exitBarrier.Before != StatePixelShaderResource || exitBarrier.After != StateCommon {
		t.Errorf("exit barrier = %d->%d, want PixelShaderResource->Common", exitBarrier.Before, exitBarrier.After)
	}
}
