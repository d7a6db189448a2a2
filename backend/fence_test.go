package backend

import (
	"sync"
	"testing"
	"time"
)

func TestFenceWaitUnblocksOnSignal(t *testing.T) {
	f := NewFence()

	var wg sync.WaitGroup
	wg.Add(1)
	done := make(chan struct{})
	go func() {
		defer wg.Done()
		f.Wait(5)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before fence was signalled")
	case <-time.After(20 * time.Millisecond):
	}

	f.Signal(5)
	wg.Wait()

	if !f.Poll(5) {
		t.Fatal("Poll(5) should report true after Signal(5)")
	}
	if f.Value() != 5 {
		t.Fatalf("Value() = %d, want 5", f.Value())
	}
}

func TestFencePollNonBlocking(t *testing.T) {
	f := NewFence()
	if f.Poll(1) {
		t.Fatal("Poll(1) should be false before any Signal")
	}
	f.Signal(1)
	if !f.Poll(1) {
		t.Fatal("Poll(1) should be true after Signal(1)")
	}
	if f.Poll(2) {
		t.Fatal("Poll(2) should be false after only Signal(1)")
	}
}
