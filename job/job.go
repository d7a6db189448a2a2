// Package job implements the fiber-based job system: priority job
// queues, a pool of OS worker threads that multiplex fibers, completion
// counters, and the kick/blocking-kick API callers use to fan work out
// and back in.
//
// Grounded on original_source/Athena/job_system.{h,cpp} and spec §3.4/
// §4.5/§5. The source's thread-local JobSystem*/Fiber*/YieldParam trio
// becomes explicit state carried on System and on each worker's
// workerLoop instead of package-level thread-locals — Go has no
// portable TLS, and threading it explicitly is both safer and the
// substitution DESIGN.md's Open Question section commits to for
// memory.Context, which every worker also owns one of.
package job

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/athena/common"
	"github.com/Carmen-Shannon/athena/fiber"
	"github.com/Carmen-Shannon/athena/internal/cpus"
	"github.com/Carmen-Shannon/athena/memory"
	"github.com/Carmen-Shannon/athena/sync2"
)

// Priority selects one of the three strictly-ordered job queues. Spec
// §4.5/§5: dequeue always drains High before Medium before Low, so a
// saturated High queue starves Medium and Low — documented, not fixed,
// per spec §9's Open Question.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
	priorityCount
)

// Entry is a job's body. Besides the same uintptr-sized param a raw
// Fiber entry takes, a Job's entry also receives a *Waiter, the handle
// it uses to kick child jobs and wait on their completion counter from
// inside its own fiber — the source reaches this through thread-local
// tls_job_system/tls_current_fiber; here it is passed explicitly.
type Entry func(w *Waiter, param uintptr)

// DebugInfo records where a job was kicked from, Go's substitute for
// the source's __FILE__/__LINE__ macro pair (JobDebugInfo).
type DebugInfo struct {
	File string
	Line int
}

// Job is one unit of work submitted to the system.
type Job struct {
	Entry    Entry
	Param    uintptr
	counter  CounterID
	Debug    DebugInfo
}

// NewJob builds a Job. Debug is left zero here; Kick/KickBlocking stamp
// it with the caller's file and line at submission time, matching the
// source's JobDebugInfo, which is recorded at the kick site rather than
// at job construction.
func NewJob(entry Entry, param uintptr) Job {
	return Job{Entry: entry, Param: param}
}

// CounterID identifies a JobCounter, minted by System.newCounter when a
// batch is kicked.
type CounterID uint64

// counter tracks how many jobs in a kicked batch remain, and which
// WorkingJobs are waiting on it to reach zero.
type counter struct {
	id        CounterID
	remaining int32 // guarded by System.counterLock
	waiters   workingQueue
}

// workingJob is a job that started executing and yielded mid-run; it
// owns the fiber and job stack until it either resumes to completion or
// yields again.
type workingJob struct {
	job    Job
	f      *fiber.Fiber
	stack  *jobStack
	waiter *Waiter
	next   *workingJob
}

// workingQueue is an intrusive FIFO of *workingJob, mirroring the
// source's WorkingJobQueue linked list.
type workingQueue struct {
	head, tail *workingJob
}

func (q *workingQueue) enqueue(j *workingJob) {
	j.next = nil
	if q.head == nil {
		q.head, q.tail = j, j
		return
	}
	q.tail.next = j
	q.tail = j
}

// append moves other's entire contents onto q and empties other, the
// Open Question decision DESIGN.md records for the source's
// structure-copy enqueue_working_jobs.
func (q *workingQueue) append(other *workingQueue) {
	if other.head == nil {
		return
	}
	if q.head == nil {
		q.head, q.tail = other.head, other.tail
	} else {
		q.tail.next = other.head
		q.tail = other.tail
	}
	other.head, other.tail = nil, nil
}

func (q *workingQueue) dequeue() (*workingJob, bool) {
	if q.head == nil {
		return nil, false
	}
	j := q.head
	q.head = q.head.next
	if q.head == nil {
		q.tail = nil
	}
	j.next = nil
	return j, true
}

const jobStackSize = 16 * memory.KiB

// jobStack is externally-owned memory handed to a fiber, matching spec
// §3.3's "usually pool-allocated" stack.
type jobStack struct {
	memory []byte
}

// queue is one priority class: a growable FIFO slice of raw Jobs guarded
// by a spin lock (spec §5: "Job queues ... wrapped in a SpinLocked<T>").
type queue struct {
	lock sync2.SpinLock
	jobs []Job
}

func (q *queue) enqueueAll(jobs []Job) {
	q.lock.Acquire()
	defer q.lock.Release()
	q.jobs = append(q.jobs, jobs...)
}

func (q *queue) dequeue() (Job, bool) {
	q.lock.Acquire()
	defer q.lock.Release()
	if len(q.jobs) == 0 {
		return Job{}, false
	}
	j := q.jobs[0]
	q.jobs = q.jobs[1:]
	return j, true
}

// System is the fiber-based job scheduler: worker goroutines pinned
// (via runtime.LockOSThread) one per physical core minus one, each
// multiplexing fibers pulled from the working-job queue or, failing
// that, the High/Medium/Low priority job queues in strict order.
type System struct {
	queues [priorityCount]*queue

	stackFree []*jobStack
	stackLock sync2.SpinLock

	workingFree []*workingJob
	workingPoolLock sync2.SpinLock

	counters    []*counter
	counterLock sync2.SpinLock
	nextCounter uint64

	working     workingQueue
	workingLock sync2.SpinLock

	cond     *sync2.ThreadSignal
	killFlag atomic.Bool

	workerScratchSize int
}

// Option configures a System at construction, in the teacher's
// functional-options style.
type Option func(*System)

// WithWorkerScratchSize overrides the per-worker memory.Context size
// (default memory.DefaultScratchSize). A zero size leaves whatever
// size is already set untouched, so an optional override threaded
// straight from a config struct's zero value doesn't clobber the
// default with an unusable 0-byte scratch context.
func WithWorkerScratchSize(size int) Option {
	return func(s *System) { s.workerScratchSize = common.Coalesce(size, s.workerScratchSize) }
}

// New constructs a job System with queueCapacity jobs of headroom per
// priority class.
func New(queueCapacity int, opts ...Option) *System {
	s := &System{
		cond:              sync2.NewThreadSignal(),
		workerScratchSize: memory.DefaultScratchSize,
		nextCounter:       1,
	}
	for i := range s.queues {
		s.queues[i] = &queue{jobs: make([]Job, 0, queueCapacity)}
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// WorkerCount returns the number of worker goroutines Run will spawn:
// physical cores minus one (spec §4.5), via internal/cpus.
func WorkerCount() int { return cpus.WorkerCount() }

// allocStack pops a job stack from the free pool, growing it lazily.
func (s *System) allocStack() *jobStack {
	s.stackLock.Acquire()
	defer s.stackLock.Release()
	if n := len(s.stackFree); n > 0 {
		st := s.stackFree[n-1]
		s.stackFree = s.stackFree[:n-1]
		return st
	}
	return &jobStack{memory: make([]byte, jobStackSize)}
}

func (s *System) freeStack(st *jobStack) {
	s.stackLock.Acquire()
	s.stackFree = append(s.stackFree, st)
	s.stackLock.Release()
}

// allocWorkingJob pops a *workingJob from the free pool, allocating one
// if the pool is empty.
func (s *System) allocWorkingJob() *workingJob {
	s.workingPoolLock.Acquire()
	defer s.workingPoolLock.Release()
	if n := len(s.workingFree); n > 0 {
		wj := s.workingFree[n-1]
		s.workingFree = s.workingFree[:n-1]
		return wj
	}
	return &workingJob{}
}

func (s *System) freeWorkingJob(wj *workingJob) {
	wj.job = Job{}
	wj.f = nil
	wj.stack = nil
	wj.waiter = nil
	wj.next = nil
	s.workingPoolLock.Acquire()
	s.workingFree = append(s.workingFree, wj)
	s.workingPoolLock.Release()
}
