// Package fiber implements the job system's cooperative coroutine: a
// unit of execution that runs on a worker goroutine until it either
// returns or explicitly yields, at which point control returns to
// whoever resumed it.
//
// The source (original_source/Athena/job_system.h) saves a literal x64
// register file (rip/rsp/rbx/... plus the xmm6-15 SIMD registers) to
// switch between fibers without OS involvement. Go has no portable way
// to do that, and spec §9's design note says as much: "implementers are
// free to use the platform's own fiber API ... provided the observable
// contract holds: returning from entry_fn is distinguishable from
// save-ing out." This port keeps the observable contract — Launch and
// Resume restore the fiber and run it until it returns (Yielded()
// false) or calls Save from inside (Yielded() true) — and implements it
// with a goroutine plus a pair of unbuffered handoff channels instead
// of a register file. A Fiber still owns a stack range for bookkeeping
// parity with spec §3.3, even though Go's own goroutine stack is what
// actually executes the entry function.
package fiber

// Entry is a fiber's body. It is handed the same uintptr-sized param
// the source's Job.param carries.
type Entry func(param uintptr)

// Fiber is a cooperatively-scheduled execution context. The zero value
// is not usable; construct with New.
type Fiber struct {
	entry Entry
	param uintptr

	stackLow, stackHigh uintptr

	resume chan struct{}
	yield  chan struct{}
	done   chan struct{}

	yielded bool
	started bool
}

// New constructs a Fiber whose entry function will run with the given
// param when first launched. stackLow/stackHigh are recorded for
// bookkeeping parity with spec §3.3 (JobStack's externally owned
// range); they are not used to host the goroutine's actual stack.
func New(stackLow, stackHigh uintptr, entry Entry, param uintptr) *Fiber {
	return &Fiber{
		entry:     entry,
		param:     param,
		stackLow:  stackLow,
		stackHigh: stackHigh,
		resume:    make(chan struct{}),
		yield:     make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Yielded reports whether the fiber is currently suspended mid-run
// (true) or has either never run or run to completion (false).
func (f *Fiber) Yielded() bool { return f.yielded }

// StackRange returns the externally-owned stack range recorded at
// construction.
func (f *Fiber) StackRange() (low, high uintptr) { return f.stackLow, f.stackHigh }

// Launch starts the fiber's entry function on a fresh goroutine and
// blocks until the fiber either returns or yields. It must only be
// called once per Fiber, before any call to Resume.
func (f *Fiber) Launch() {
	if f.started {
		panic("fiber: Launch called on an already-started fiber")
	}
	f.started = true

	go func() {
		f.entry(f.param)
		f.yielded = false
		close(f.done)
	}()

	select {
	case <-f.yield:
	case <-f.done:
	}
}

// Resume continues a previously-yielded fiber from the point of its
// last Save call, blocking until it yields again or returns. Calling
// Resume on a fiber that has not yielded (Yielded() == false) is a
// programming error.
func (f *Fiber) Resume() {
	if !f.yielded {
		panic("fiber: Resume called on a fiber that is not yielded")
	}
	f.resume <- struct{}{}
	select {
	case <-f.yield:
	case <-f.done:
	}
}

// Save suspends the calling fiber, handing control back to whoever
// called Launch or Resume, and blocks until the next Resume. It must
// only be called from within the fiber's own entry function. stackHigh
// is accepted for API parity with the source's save_to_fiber(fiber,
// stack_high) signature but is not otherwise used.
func Save(f *Fiber, stackHigh uintptr) {
	f.yielded = true
	f.yield <- struct{}{}
	<-f.resume
	f.yielded = false
}
