package job

// yieldReason distinguishes why a fiber called Save, mirroring the
// source's tls_yield_param.type discriminant (YIELD_PARAM_JOB_COUNTER
// is the only variant the source implements).
type yieldReason int

const (
	yieldCounter yieldReason = iota
)

// yieldState is what a yielding job stashes on its Waiter for the
// worker to act on once Save returns control, replacing the source's
// thread-local tls_yield_param.
type yieldState struct {
	reason  yieldReason
	counter CounterID
}

func (s *System) findCounter(id CounterID) (*counter, int) {
	for i, c := range s.counters {
		if c.id == id {
			return c, i
		}
	}
	return nil, -1
}

// newCounter mints and registers a counter tracking n outstanding jobs.
func (s *System) newCounter(n int) *counter {
	s.counterLock.Acquire()
	defer s.counterLock.Release()
	id := CounterID(s.nextCounter)
	s.nextCounter++
	c := &counter{id: id, remaining: int32(n)}
	s.counters = append(s.counters, c)
	return c
}

// signal decrements the named counter by one. When it reaches zero the
// counter is retired and any WorkingJobs that were waiting on it are
// moved onto the global working-job queue, exactly as the source's
// signal_job_counter does under job_counters' ACQUIRE block followed by
// its own append onto working_jobs_queue.
func (s *System) signal(id CounterID) {
	s.counterLock.Acquire()
	c, idx := s.findCounter(id)
	if c == nil {
		s.counterLock.Release()
		return
	}
	remaining := c.remaining - 1
	c.remaining = remaining
	var freed workingQueue
	if remaining == 0 {
		s.counters = append(s.counters[:idx], s.counters[idx+1:]...)
		freed = c.waiters
		c.waiters = workingQueue{}
	}
	s.counterLock.Release()

	if remaining == 0 {
		s.workingLock.Acquire()
		s.working.append(&freed)
		s.workingLock.Release()
		s.cond.NotifyAll()
	}
}

// waitForCounter registers wj as waiting on id. If the counter has
// already been retired (a racing signal beat us to the lock, same as
// the source's fallback path in working_job_wait_for_counter) wj is
// pushed straight onto the global working-job queue instead.
func (s *System) waitForCounter(id CounterID, wj *workingJob) {
	s.counterLock.Acquire()
	c, _ := s.findCounter(id)
	if c != nil {
		c.waiters.enqueue(wj)
		s.counterLock.Release()
		return
	}
	s.counterLock.Release()

	s.workingLock.Acquire()
	s.working.enqueue(wj)
	s.workingLock.Release()
	s.cond.NotifyAll()
}
