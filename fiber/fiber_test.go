package fiber

import "testing"

func TestLaunchRunsToCompletionWithoutYield(t *testing.T) {
	ran := false
	f := New(0, 4096, func(param uintptr) {
		ran = true
	}, 0)

	f.Launch()

	if !ran {
		t.Fatal("entry did not run")
	}
	if f.Yielded() {
		t.Fatal("Yielded() = true after a fiber that never saved")
	}
}

func TestSaveYieldsAndResumeContinues(t *testing.T) {
	var steps []string
	var f *Fiber
	f = New(0, 4096, func(param uintptr) {
		steps = append(steps, "before")
		Save(f, 4096)
		steps = append(steps, "after")
	}, 0)

	f.Launch()
	if !f.Yielded() {
		t.Fatal("Yielded() = false after Save")
	}
	if len(steps) != 1 || steps[0] != "before" {
		t.Fatalf("steps after Launch = %v, want [before]", steps)
	}

	f.Resume()
	if f.Yielded() {
		t.Fatal("Yielded() = true after fiber ran to completion")
	}
	if len(steps) != 2 || steps[1] != "after" {
		t.Fatalf("steps after Resume = %v, want [before after]", steps)
	}
}

func TestResumeOnNonYieldedFiberPanics(t *testing.T) {
	f := New(0, 4096, func(param uintptr) {}, 0)
	f.Launch()

	defer func() {
		if recover() == nil {
			t.Fatal("Resume on a completed, non-yielded fiber did not panic")
		}
	}()
	f.Resume()
}

func TestDoubleLaunchPanics(t *testing.T) {
	f := New(0, 4096, func(param uintptr) {}, 0)
	f.Launch()

	defer func() {
		if recover() == nil {
			t.Fatal("second Launch did not panic")
		}
	}()
	f.Launch()
}

func TestParamIsPassedThrough(t *testing.T) {
	var got uintptr
	f := New(0, 4096, func(param uintptr) {
		got = param
	}, 0xABCD)
	f.Launch()

	if got != 0xABCD {
		t.Fatalf("param = %#x, want 0xabcd", got)
	}
}
