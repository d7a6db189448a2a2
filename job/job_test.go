package job

import (
	"sync/atomic"
	"testing"
)

// TestKickBlockingSumS4 kicks 1000 jobs, each atomically adding 10000 to
// a shared counter, and expects KickBlocking to only return once every
// job has run, giving a final sum of 10,000,000.
func TestKickBlockingSumS4(t *testing.T) {
	s := New(64)
	go s.Run()
	defer s.Stop()

	const jobCount = 1000
	const perJob = int64(10000)

	var sum atomic.Int64
	jobs := make([]Job, jobCount)
	for i := range jobs {
		jobs[i] = NewJob(func(w *Waiter, param uintptr) {
			sum.Add(perJob)
		}, 0)
	}

	s.KickBlocking(PriorityMedium, jobs)

	if got := sum.Load(); got != int64(jobCount)*perJob {
		t.Fatalf("sum = %d, want %d", got, int64(jobCount)*perJob)
	}
}

// TestKickBlockingNested has a parent batch of jobs, each of which
// itself kicks a child batch and waits on it before finishing, to
// exercise Waiter.Wait's fiber-yield path through the working-job
// queue.
func TestKickBlockingNested(t *testing.T) {
	s := New(64)
	go s.Run()
	defer s.Stop()

	const parents = 20
	const childrenPerParent = 5

	var total atomic.Int64
	jobs := make([]Job, parents)
	for i := range jobs {
		jobs[i] = NewJob(func(w *Waiter, param uintptr) {
			children := make([]Job, childrenPerParent)
			for c := range children {
				children[c] = NewJob(func(_ *Waiter, _ uintptr) {
					total.Add(1)
				}, 0)
			}
			id := w.Kick(PriorityHigh, children)
			w.Wait(id)
			total.Add(100)
		}, 0)
	}

	s.KickBlocking(PriorityLow, jobs)

	want := int64(parents)*int64(childrenPerParent) + int64(parents)*100
	if got := total.Load(); got != want {
		t.Fatalf("total = %d, want %d", got, want)
	}
}

// TestKickStampsDebugInfo checks that Kick records its caller's file
// and line on every job in the batch, the runtime.Caller substitute for
// the source's __FILE__/__LINE__ JobDebugInfo macro.
func TestKickStampsDebugInfo(t *testing.T) {
	s := New(8)
	w := &Waiter{sys: s}
	w.Kick(PriorityLow, []Job{NewJob(func(*Waiter, uintptr) {}, 0)})

	j, ok := s.nextJob()
	if !ok {
		t.Fatal("expected a job")
	}
	if j.Debug.File == "" || j.Debug.Line == 0 {
		t.Fatalf("expected debug info to be stamped, got %+v", j.Debug)
	}
}

// TestPriorityOrder checks that High-priority jobs already queued ahead
// of Medium/Low ones are always dequeued first, per spec §4.5/§5's
// strict-priority (starvation-prone) scheduling rule.
func TestPriorityOrder(t *testing.T) {
	// High must come out first regardless of enqueue order.
	s := New(8)
	lowJob := NewJob(func(*Waiter, uintptr) {}, 1)
	medJob := NewJob(func(*Waiter, uintptr) {}, 2)
	highJob := NewJob(func(*Waiter, uintptr) {}, 3)
	s.queues[PriorityLow].enqueueAll([]Job{lowJob})
	s.queues[PriorityMedium].enqueueAll([]Job{medJob})
	s.queues[PriorityHigh].enqueueAll([]Job{highJob})

	first, ok := s.nextJob()
	if !ok || first.Param != 3 {
		t.Fatalf("expected high-priority job first, got param %d", first.Param)
	}
	second, ok := s.nextJob()
	if !ok || second.Param != 2 {
		t.Fatalf("expected medium-priority job second, got param %d", second.Param)
	}
	third, ok := s.nextJob()
	if !ok || third.Param != 1 {
		t.Fatalf("expected low-priority job third, got param %d", third.Param)
	}
}
