package rendergraph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ResourceBarrierType distinguishes the barrier shapes the source
// tracks; this port emits transitions and UAV barriers only. It emits no
// aliasing barriers: the source uses those for placed-resource heap
// reuse, and the physical placement in physical.go never reuses heap
// ranges.
type ResourceBarrierType uint8

const (
	BarrierTransition ResourceBarrierType = iota
	BarrierUAV
)

// ResourceBarrier is one state transition (or UAV sync point) the
// executor must issue before a dependency level's passes run, matching
// RgResourceBarrier.
type ResourceBarrier struct {
	Type         ResourceBarrierType
	ResourceID   uint32
	ResourceType ResourceType
	Before       ResourceState
	After        ResourceState
}

// DependencyLevel is a set of passes with no dependency among
// themselves, and the barriers that must run before any of them,
// matching RgDependencyLevel. Passes within a level can in principle
// run concurrently (the executor fans them out with errgroup).
type DependencyLevel struct {
	Passes   []PassID
	Barriers []ResourceBarrier
}

// Graph is a compiled Builder, ready for Execute, matching
// RenderGraph/CompiledRenderGraph.
type Graph struct {
	Passes           []*PassBuilder
	DependencyLevels []DependencyLevel
	ExitBarriers     []ResourceBarrier
	BackBuffer       ResourceHandle
	Width, Height    int
}

type adjacency struct {
	deps [][]PassID
}

// buildAdjacency links each pass to the passes that depend on one of
// its writes, matching init_adjacency_list: pass A is adjacent to pass
// B when B reads or writes the handle A just wrote, at exactly one
// version ahead.
func buildAdjacency(b *Builder) adjacency {
	adj := adjacency{deps: make([][]PassID, len(b.Passes))}
	for _, pass := range b.Passes {
		for _, other := range b.Passes {
			if other.ID == pass.ID {
				continue
			}
			dependsOnPass := false
		writeLoop:
			for _, w := range pass.WriteResources {
				want := w.Handle
				want.Version++
				for _, r := range other.ReadResources {
					if r.Handle.ID == want.ID && r.Handle.Version == want.Version {
						dependsOnPass = true
						break writeLoop
					}
				}
				for _, r := range other.WriteResources {
					if r.Handle.ID == want.ID && r.Handle.Version == want.Version {
						dependsOnPass = true
						break writeLoop
					}
				}
			}
			if dependsOnPass {
				adj.deps[pass.ID] = append(adj.deps[pass.ID], other.ID)
			}
		}
		// manualDeps[pass.ID] holds what pass depends on (DependsOn's
		// argument is the upstream pass), so the edge runs the other way
		// from the resource-based adjacency above: dep is upstream of
		// pass, so pass belongs in dep's downstream list, not the reverse.
		for _, dep := range b.manualDeps[pass.ID] {
			adj.deps[dep] = append(adj.deps[dep], pass.ID)
		}
	}
	return adj
}

// hasCycle walks the adjacency list with the standard
// visited/in-path DFS, matching is_cyclic_adjacency_list.
func hasCycle(adj adjacency) bool {
	visited := make([]bool, len(adj.deps))
	inPath := make([]bool, len(adj.deps))

	var dfs func(PassID) bool
	dfs = func(id PassID) bool {
		inPath[id] = true
		visited[id] = true
		for _, dep := range adj.deps[id] {
			if visited[dep] {
				if inPath[dep] {
					return true
				}
				continue
			}
			if dfs(dep) {
				return true
			}
		}
		inPath[id] = false
		return false
	}

	for i := range adj.deps {
		if visited[i] {
			continue
		}
		if dfs(PassID(i)) {
			return true
		}
	}
	return false
}

// topologicalSort returns pass ids in dependency order (a pass appears
// after everything it depends on), matching
// topological_sort_adjacency_list's post-order-then-reverse DFS.
func topologicalSort(adj adjacency) []PassID {
	visited := make([]bool, len(adj.deps))
	var out []PassID

	var dfs func(PassID)
	dfs = func(id PassID) {
		visited[id] = true
		for _, dep := range adj.deps[id] {
			if visited[dep] {
				continue
			}
			dfs(dep)
		}
		out = append(out, id)
	}

	for i := range adj.deps {
		if visited[i] {
			continue
		}
		dfs(PassID(i))
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// buildDependencyLevels assigns each pass to the dependency level one
// past the longest chain of dependencies leading to it, matching
// init_dependency_levels' longest-distance relaxation over the
// topological order.
func buildDependencyLevels(b *Builder, adj adjacency, order []PassID) []DependencyLevel {
	longest := make([]int, len(order))
	levelCount := 1

	for _, id := range order {
		for _, dep := range adj.deps[id] {
			dist := longest[id] + 1
			if longest[dep] >= dist {
				continue
			}
			longest[dep] = dist
			if dist+1 > levelCount {
				levelCount = dist + 1
			}
		}
	}

	levels := make([]DependencyLevel, levelCount)
	for _, id := range order {
		lvl := longest[id]
		levels[lvl].Passes = append(levels[lvl].Passes, id)
	}
	return levels
}

type resourceTracking struct {
	current ResourceState
	history ResourceState
	touched bool
}

// inferBarriers walks the dependency levels in order, merging every
// pass's resource accesses within a level into a per-resource state
// (reads OR together, a write replaces), and emits a transition barrier
// whenever a resource's state changes level-to-level, plus a UAV
// barrier whenever a resource lands in StateUnorderedAccess — exactly
// init_dependency_barriers' algorithm. A final pass over every resource
// emits an exit barrier back to StateCommon for anything left in a
// non-common state, matching the source's trailing loop.
func inferBarriers(b *Builder, levels []DependencyLevel) []ResourceBarrier {
	tracking := make(map[uint32]*resourceTracking, len(b.ResourceList))
	typeOf := make(map[uint32]ResourceType, len(b.ResourceList))
	for _, h := range b.ResourceList {
		if _, ok := tracking[h.ID]; !ok {
			tracking[h.ID] = &resourceTracking{}
		}
		typeOf[h.ID] = h.Type
	}

	for li := range levels {
		level := &levels[li]

		for _, passID := range level.Passes {
			pass := b.Passes[passID]
			for _, r := range pass.ReadResources {
				t := tracking[r.Handle.ID]
				if !t.touched {
					t.current = StateCommon
				}
				t.current |= resourceState(r)
				t.touched = true
			}
			for _, w := range pass.WriteResources {
				t := tracking[w.Handle.ID]
				t.current = resourceState(w)
				t.touched = true
			}
		}

		for id, t := range tracking {
			if t.history != t.current {
				level.Barriers = append(level.Barriers, ResourceBarrier{
					Type:         BarrierTransition,
					ResourceID:   id,
					ResourceType: typeOf[id],
					Before:       t.history,
					After:        t.current,
				})
			}
			if t.current == StateUnorderedAccess {
				level.Barriers = append(level.Barriers, ResourceBarrier{
					Type:         BarrierUAV,
					ResourceID:   id,
					ResourceType: typeOf[id],
				})
			}
			t.history = t.current
			t.touched = false
		}
	}

	// Each resource's exit barrier depends only on its own tracking entry,
	// so the pass over the distinct resource ids fans out across an
	// errgroup rather than running as a plain loop: results land in a
	// pre-sized slice indexed by each id's first-seen position, so the
	// goroutines never contend on a shared slice or map entry.
	seen := make(map[uint32]bool, len(b.ResourceList))
	var order []uint32
	for _, h := range b.ResourceList {
		if seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		order = append(order, h.ID)
	}

	results := make([]*ResourceBarrier, len(order))
	g, _ := errgroup.WithContext(context.Background())
	for i, id := range order {
		i, id := i, id
		g.Go(func() error {
			t := tracking[id]
			if t.history == StateCommon {
				return nil
			}
			results[i] = &ResourceBarrier{
				Type:         BarrierTransition,
				ResourceID:   id,
				ResourceType: typeOf[id],
				Before:       t.history,
				After:        StateCommon,
			}
			t.history = StateCommon
			return nil
		})
	}
	_ = g.Wait()

	var exit []ResourceBarrier
	for _, r := range results {
		if r != nil {
			exit = append(exit, *r)
		}
	}
	return exit
}

// Compile turns a recorded Builder into an executable Graph. It panics
// on a cyclic resource dependency graph, matching the source's
// ASSERT(!is_cyclic) — a render graph cycle is a programming error, not
// a recoverable one, per spec §7.
func Compile(b *Builder) *Graph {
	if b.BackBuffer.Version != 1 {
		panic(fmt.Sprintf("rendergraph: back buffer must be written exactly once, got version %d", b.BackBuffer.Version))
	}

	adj := buildAdjacency(b)
	if hasCycle(adj) {
		panic("rendergraph: cyclic pass dependency")
	}

	order := topologicalSort(adj)
	levels := buildDependencyLevels(b, adj, order)
	exit := inferBarriers(b, levels)

	return &Graph{
		Passes:           b.Passes,
		DependencyLevels: levels,
		ExitBarriers:     exit,
		BackBuffer:       b.BackBuffer,
		Width:            b.Width,
		Height:           b.Height,
	}
}
