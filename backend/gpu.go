package backend

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPU is the one concrete backend: the opaque device API the render graph
// executor drives, implemented over cogentcore/webgpu. It owns the device
// and queue the way wgpuRendererBackendImpl does, generalized to expose
// fences, placed resources, views, PSOs and command lists instead of the
// teacher's frame-oriented Begin/End*Frame surface.
type GPU struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// Option configures a GPU at construction, following the module's
// functional-options convention (job.Option, RendererBuilderOption).
type Option func(*gpuConfig)

type gpuConfig struct {
	forceFallbackAdapter bool
	label                string
}

// WithForceFallbackAdapter requests wgpu's software adapter, matching
// RendererBuilder.WithForceSoftwareRenderer.
func WithForceFallbackAdapter(force bool) Option {
	return func(c *gpuConfig) { c.forceFallbackAdapter = force }
}

// WithLabel names the device for diagnostic output, matching the "Main
// Device" label wgpuRendererBackendImpl's setup hard-codes.
func WithLabel(label string) Option {
	return func(c *gpuConfig) { c.label = label }
}

// New requests an adapter and device and returns a ready GPU, generalizing
// the setup newWGPURendererBackend performs inline. Unlike the teacher,
// this backend has no swap-chain surface of its own — render graph output
// always lands in a graph-owned texture, and presentation is a windowing
// concern outside this package's scope — so RequestAdapter is never given
// a CompatibleSurface.
func New(opts ...Option) (*GPU, error) {
	cfg := gpuConfig{label: "Main Device"}
	for _, opt := range opts {
		opt(&cfg)
	}

	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
	})
	if err != nil {
		return nil, fmt.Errorf("backend: request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: cfg.label})
	if err != nil {
		return nil, fmt.Errorf("backend: request device: %w", err)
	}

	return &GPU{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}

// CreateFence creates a new fence starting at 0, matching create_gpu_fence.
func (g *GPU) CreateFence() *Fence { return NewFence() }

// DestroyFence is a no-op on this backend: Fence owns no wgpu resource,
// only a mutex and a counter. Kept so callers written against the full
// create/destroy pair compile, matching destroy_gpu_fence's signature.
func (g *GPU) DestroyFence(*Fence) {}

// AllocHeap reserves a size-byte virtual offset range at location, matching
// alloc_gpu_heap.
func (g *GPU) AllocHeap(location HeapLocation, size int) *Heap {
	return NewHeap(location, size)
}

// Submit finishes and submits every command list in order and signals
// fence with value once the batch completes, matching graphics.h's
// cmd_queue_submit. cogentcore/webgpu exposes no submitted-work-done
// callback, so completion is approximated by signalling immediately after
// queue.Submit returns rather than after the GPU actually retires the
// work; Wait/Poll callers still observe correct ordering relative to other
// Submit calls, just not true GPU-side completion latency.
func (g *GPU) Submit(cmdLists []*CmdList, fence *Fence, value uint64) error {
	buffers := make([]*wgpu.CommandBuffer, len(cmdLists))
	for i, c := range cmdLists {
		cb, err := c.finish()
		if err != nil {
			return err
		}
		buffers[i] = cb
	}

	g.queue.Submit(buffers...)
	for _, cb := range buffers {
		cb.Release()
	}
	for _, c := range cmdLists {
		c.encoder.Release()
	}

	if fence != nil {
		fence.Signal(value)
	}
	return nil
}

// Device exposes the underlying wgpu device for callers that need to talk
// to wgpu directly, such as swap-chain surface configuration (a windowing
// concern the backend does not own, per spec §1's Non-goals).
func (g *GPU) Device() *wgpu.Device { return g.device }

// Queue exposes the underlying wgpu queue for the same reason.
func (g *GPU) Queue() *wgpu.Queue { return g.queue }
