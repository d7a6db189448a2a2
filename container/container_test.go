package container

import "testing"

func TestArrayCapacity(t *testing.T) {
	a := NewArray[int](2)
	if !a.Add(1) || !a.Add(2) {
		t.Fatal("expected first two adds to succeed")
	}
	if a.Add(3) {
		t.Fatal("expected add past capacity to fail")
	}
	if a.Len() != 2 {
		t.Fatalf("len = %d, want 2", a.Len())
	}
}

func TestRingBufferRoundTrip(t *testing.T) {
	rb := NewRingBuffer(16)
	if !rb.TryPush([]byte("hello")) {
		t.Fatal("push should succeed")
	}
	out := make([]byte, 5)
	if !rb.TryPop(5, out) {
		t.Fatal("pop should succeed")
	}
	if string(out) != "hello" {
		t.Fatalf("got %q, want hello", out)
	}
	if !rb.Empty() {
		t.Fatal("ring should be empty after matching push/pop")
	}
}

func TestRingBufferOffByOneCapacity(t *testing.T) {
	// Documented limitation: an N byte ring buffer holds at most N-1
	// live bytes, because TryPush treats read==write after a would-be
	// full push as indistinguishable from empty.
	rb := NewRingBuffer(8)
	if !rb.TryPush(make([]byte, 7)) {
		t.Fatal("7 bytes should fit in an 8 byte ring")
	}
	if rb.TryPush(make([]byte, 1)) {
		t.Fatal("the 8th byte should be rejected by the documented off-by-one")
	}
}

func TestOption(t *testing.T) {
	some := Some(42)
	if !some.IsSome() || some.Unwrap() != 42 {
		t.Fatal("Some should report present and unwrap to its value")
	}
	none := None[int]()
	if !none.IsNone() || none.UnwrapOr(7) != 7 {
		t.Fatal("None should report absent and fall back to UnwrapOr's default")
	}
}

func TestHashTable(t *testing.T) {
	h := NewHashTable[string, int](4)
	h.Insert("a", 1)
	if v := h.Get("a"); v.IsNone() || v.Unwrap() != 1 {
		t.Fatal("expected a=1")
	}
	h.Delete("a")
	if h.Get("a").IsSome() {
		t.Fatal("expected a to be gone after delete")
	}
}
