// Package sync2 implements the threading primitives spec component F
// wraps around: a spin lock, a reader/writer lock, a condition-variable
// based signal, and the SpinLocked[T] closure-scoped lock guard.
//
// The source hand-rolls these on top of Windows SRW locks, condition
// variables and InterlockedCompareExchange; Go's sync package already
// implements the same primitives portably, so this package is a thin,
// idiomatic wrapper rather than a reimplementation — per spec §9's
// design note on the source's ACQUIRE block. Only the closure flavour is
// provided: SpinLocked[T].With and WithResult run a closure while holding
// the lock; there is no separate guard object.
//
// Grounded on original_source/Athena/threading.{h,cpp}.
package sync2

import "sync"

// SpinLock is a mutual-exclusion lock standing in for the source's
// InterlockedCompareExchange-based SpinLock. It wraps sync.Mutex, so a
// contended Acquire blocks in the Go runtime rather than busy-waiting;
// this type exists because spec §5 calls out
// job queues, the counter table, and the working-job queues specifically
// as SpinLocked[T]-guarded state.
type SpinLock struct {
	mu sync.Mutex
}

// Acquire blocks until the lock is held.
func (l *SpinLock) Acquire() { l.mu.Lock() }

// TryAcquire attempts to acquire the lock without blocking.
func (l *SpinLock) TryAcquire() bool { return l.mu.TryLock() }

// Release unlocks the lock.
func (l *SpinLock) Release() { l.mu.Unlock() }

// SpinLocked pairs a value with a SpinLock guarding it, matching the
// source's SpinLocked<T>. With runs f while holding the lock, and
// WithResult does the same and returns f's result. Holding the lock
// across a yield point is forbidden per spec §5 (it would deadlock), but
// nothing stops a closure from yielding, matching the source.
type SpinLocked[T any] struct {
	lock  SpinLock
	value T
}

// NewSpinLocked constructs a SpinLocked wrapping the given initial
// value.
func NewSpinLocked[T any](v T) *SpinLocked[T] {
	return &SpinLocked[T]{value: v}
}

// With runs f with exclusive access to the guarded value.
func (s *SpinLocked[T]) With(f func(*T)) {
	s.lock.Acquire()
	defer s.lock.Release()
	f(&s.value)
}

// WithResult is With but threads a return value out of the closure.
func WithResult[T, R any](s *SpinLocked[T], f func(*T) R) R {
	s.lock.Acquire()
	defer s.lock.Release()
	return f(&s.value)
}

// RWLock wraps sync.RWMutex, grounded on the source's SRW lock usage.
type RWLock struct {
	mu sync.RWMutex
}

func (l *RWLock) Lock()    { l.mu.Lock() }
func (l *RWLock) Unlock()  { l.mu.Unlock() }
func (l *RWLock) RLock()   { l.mu.RLock() }
func (l *RWLock) RUnlock() { l.mu.RUnlock() }

// ThreadSignal combines a lock with a condition variable for
// wait/notify-one/notify-all, matching the source's ThreadSignal.
type ThreadSignal struct {
	mu   sync.Mutex
	cond *sync.Cond
}

// NewThreadSignal constructs a ready-to-use ThreadSignal.
func NewThreadSignal() *ThreadSignal {
	s := &ThreadSignal{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Wait blocks until Notify or NotifyAll is called. The caller must hold
// no other lock; Wait manages its own internal mutex.
func (s *ThreadSignal) Wait() {
	s.mu.Lock()
	s.cond.Wait()
	s.mu.Unlock()
}

// WaitUntil blocks until cond() returns true, re-checking on each
// wakeup (guards against spurious wakeups, as sync.Cond.Wait's own doc
// requires).
func (s *ThreadSignal) WaitUntil(cond func() bool) {
	s.mu.Lock()
	for !cond() {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// Notify wakes a single waiter.
func (s *ThreadSignal) Notify() {
	s.mu.Lock()
	s.cond.Signal()
	s.mu.Unlock()
}

// NotifyAll wakes every waiter.
func (s *ThreadSignal) NotifyAll() {
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}
