package job

import (
	"runtime"
	"unsafe"

	"github.com/Carmen-Shannon/athena/fiber"
	"github.com/Carmen-Shannon/athena/memory"
)

// Waiter is the handle a running job's Entry uses to kick further jobs
// and block its own fiber (not its worker thread) until they finish.
// It is the explicit substitute for the source's thread-local
// tls_job_system/tls_current_fiber pair — see job.go's package doc.
type Waiter struct {
	sys     *System
	f       *fiber.Fiber
	scratch *memory.ScratchAllocator
	pend    yieldState
}

// Scratch returns the calling job's per-worker scratch allocator,
// substituting for the source's thread-local scratch arena (spec
// §3.4's per-worker Context).
func (w *Waiter) Scratch() *memory.ScratchAllocator { return w.scratch }

// Kick submits jobs to sys under a fresh counter and returns its id,
// same signature/intent as the source's _kick_jobs.
func (w *Waiter) Kick(priority Priority, jobs []Job) CounterID {
	stampDebug(jobs)
	return w.sys.kick(priority, jobs)
}

// Wait blocks the calling job's fiber — not its OS worker thread —
// until id's counter reaches zero, mirroring yield_to_counter: it
// records a yieldCounter request and calls fiber.Save, handing control
// back to the worker loop, which reads the request and registers the
// fiber as a WorkingJob waiting on the counter instead of resuming it
// immediately.
func (w *Waiter) Wait(id CounterID) {
	w.pend = yieldState{reason: yieldCounter, counter: id}
	fiber.Save(w.f, 0)
}

// KickBlocking submits jobs and blocks the calling goroutine (an OS
// thread, not a fiber — this is meant to be called from outside the
// job system, e.g. from main) until they all complete.
func (s *System) KickBlocking(priority Priority, jobs []Job) {
	wrapped := make([]Job, len(jobs))
	copy(wrapped, jobs)
	stampDebug(wrapped)
	c := s.kick(priority, wrapped)

	s.cond.WaitUntil(func() bool {
		s.counterLock.Acquire()
		_, idx := s.findCounter(c)
		s.counterLock.Release()
		return idx == -1
	})
}

// kick allocates a counter for len(jobs) jobs, stamps each job with it,
// and pushes them onto the given priority queue, mirroring _kick_jobs'
// counter-allocation-then-enqueue sequence.
func (s *System) kick(priority Priority, jobs []Job) CounterID {
	if len(jobs) == 0 {
		return 0
	}
	c := s.newCounter(len(jobs))
	for i := range jobs {
		jobs[i].counter = c.id
	}
	s.queues[priority].enqueueAll(jobs)
	s.cond.NotifyAll()
	return c.id
}

// stampDebug records the file/line of Kick or KickBlocking's own caller
// onto every job in the batch, Go's substitute for the source's
// __FILE__/__LINE__ JobDebugInfo macro pair.
func stampDebug(jobs []Job) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return
	}
	for i := range jobs {
		jobs[i].Debug = DebugInfo{File: file, Line: line}
	}
}

func (s *System) getQueue(p Priority) *queue { return s.queues[p] }

// nextJob drains the priority queues in strict High, Medium, Low order,
// matching get_queue's switch plus wait_for_next_job's scan order.
func (s *System) nextJob() (Job, bool) {
	for p := PriorityHigh; p <= PriorityLow; p++ {
		if j, ok := s.getQueue(p).dequeue(); ok {
			return j, true
		}
	}
	return Job{}, false
}

// Run spawns WorkerCount() worker goroutines and blocks until Stop is
// called. Each worker locks to its OS thread for the lifetime of the
// run, mirroring spawn_job_system_workers' one-native-thread-per-worker
// model, and owns its own memory.Context scratch arena.
func (s *System) Run() {
	n := WorkerCount()
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			s.workerLoop()
			done <- struct{}{}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}
}

// Stop requests all workers exit once they next find no work, mirroring
// job_worker's should_exit/JOB_TYPE_INVALID loop break.
func (s *System) Stop() {
	s.killFlag.Store(true)
	s.cond.NotifyAll()
}

// workerLoop is one worker thread's body: wait_for_next_job, dispatched
// to either launchJob or resumeWorkingJob.
func (s *System) workerLoop() {
	ctx := memory.NewContext(memory.GlobalOS(), s.workerScratchSize)
	defer ctx.Destroy()

	for {
		if wj, ok := s.popWorking(); ok {
			s.resumeWorkingJob(wj, ctx)
			continue
		}
		if j, ok := s.nextJob(); ok {
			s.launchJob(j, ctx)
			continue
		}
		if s.killFlag.Load() {
			return
		}
		s.cond.WaitUntil(func() bool {
			return s.killFlag.Load() || s.hasWork()
		})
	}
}

func (s *System) hasWork() bool {
	s.workingLock.Acquire()
	has := s.working.head != nil
	s.workingLock.Release()
	if has {
		return true
	}
	for p := PriorityHigh; p <= PriorityLow; p++ {
		q := s.getQueue(p)
		q.lock.Acquire()
		n := len(q.jobs)
		q.lock.Release()
		if n > 0 {
			return true
		}
	}
	return false
}

func (s *System) popWorking() (*workingJob, bool) {
	s.workingLock.Acquire()
	defer s.workingLock.Release()
	return s.working.dequeue()
}

// launchJob allocates a stack and fiber for j and launches it. If it
// runs to completion without yielding, finishJob retires it immediately
// (mirroring launch_job's non-yielded branch); otherwise it is parked
// as a WorkingJob via yieldWorkingJob.
func (s *System) launchJob(j Job, ctx *memory.Context) {
	st := s.allocStack()
	sc := memory.AllocScratch(ctx)
	w := &Waiter{sys: s, scratch: sc}

	var f *fiber.Fiber
	low, high := addrRange(st.memory)
	f = fiber.New(low, high, func(param uintptr) {
		w.f = f
		j.Entry(w, param)
	}, j.Param)

	f.Launch()
	s.afterRun(j, f, st, w)
}

// resumeWorkingJob continues a parked fiber. If it finishes, the
// WorkingJob is retired and its fiber stack returned to the pools;
// otherwise it is re-parked according to its fresh yield request,
// mirroring resume_working_job.
func (s *System) resumeWorkingJob(wj *workingJob, ctx *memory.Context) {
	wj.f.Resume()
	s.afterRun(wj.job, wj.f, wj.stack, wj.waiter)
	s.freeWorkingJob(wj)
}

// afterRun inspects f right after Launch/Resume returns: if it finished
// (Yielded() == false) its scratch arena is released and the job is
// retired via finishJob; if it yielded,
// it is parked either as a waiter on a counter or back on the working
// queue, reading the request the fiber left in w.pend (equivalent to
// yield_working_job's dispatch on tls_yield_param.type).
func (s *System) afterRun(j Job, f *fiber.Fiber, st *jobStack, w *Waiter) {
	if !f.Yielded() {
		w.scratch.Release()
		s.finishJob(j, st)
		return
	}

	wj := s.allocWorkingJob()
	wj.job = j
	wj.f = f
	wj.stack = st
	wj.waiter = w

	switch w.pend.reason {
	case yieldCounter:
		s.waitForCounter(w.pend.counter, wj)
	}
}

// finishJob frees j's stack and signals its completion counter,
// mirroring finish_job.
func (s *System) finishJob(j Job, st *jobStack) {
	s.freeStack(st)
	if j.counter != 0 {
		s.signal(j.counter)
	}
}

// addrRange reports a job stack's address span for bookkeeping parity
// with fiber.Fiber's StackRange, same rationale as memory.addrOf.
func addrRange(buf []byte) (low, high uintptr) {
	if len(buf) == 0 {
		return 0, 0
	}
	start := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	return start, start + uintptr(len(buf))
}
