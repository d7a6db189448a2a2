package backend

import "sync"

// Fence is a monotonic GPU sync point, the stand-in for GpuFence. Signal is
// called by GPU.Submit right after queue.Submit returns (see Submit for why
// that is not true GPU-side completion); Wait blocks until the fence
// reaches at least that value, and Poll reports without blocking. wgpu has
// no native fence object, so Fence is a counter guarded by a mutex plus a
// condition variable rather than a wrapper over raw channels.
type Fence struct {
	mu        sync.Mutex
	cond      *sync.Cond
	completed uint64
}

// NewFence creates a fence starting at value 0, matching create_gpu_fence.
func NewFence() *Fence {
	f := &Fence{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Signal advances the fence to value, waking any waiters whose target has
// now been reached. Values must be signalled in non-decreasing order, the
// same contract GpuFence::Signal documents.
func (f *Fence) Signal(value uint64) {
	f.mu.Lock()
	if value > f.completed {
		f.completed = value
	}
	f.mu.Unlock()
	f.cond.Broadcast()
}

// Wait blocks until the fence reaches at least value, matching
// wait_on_fence's infinite-timeout mode (spec §6 names no other mode).
func (f *Fence) Wait(value uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.completed < value {
		f.cond.Wait()
	}
}

// Poll reports whether the fence has already reached value without
// blocking, matching GpuFence::Poll.
func (f *Fence) Poll(value uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed >= value
}

// Value returns the fence's last-signalled value.
func (f *Fence) Value() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}
