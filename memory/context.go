package memory

// Context owns the Stack allocator nested scratch arenas push onto. Spec
// §3.2/§4.3 describe it as thread-local; this Go port threads it
// explicitly instead (see DESIGN.md's Open Question notes) — every
// goroutine that needs scratch space (the main goroutine, each job
// worker) owns exactly one *Context, created once and passed to whatever
// needs it.
type Context struct {
	stack *Stack
	depth int
}

// DefaultScratchSize is the default size of a Context's backing stack,
// matching the source's "default 64 MiB" for the main thread (spec
// §4.3).
const DefaultScratchSize = 64 * MiB

// NewContext constructs a Context with a Stack allocator over a
// size-byte buffer obtained from h.
func NewContext(h FreeHeap, size int) *Context {
	if size <= 0 {
		size = DefaultScratchSize
	}
	return &Context{stack: NewStackFromHeap(h, size)}
}

// NewContextOverBuffer constructs a Context over a caller-owned buffer,
// useful in tests that want a small, deterministic scratch stack.
func NewContextOverBuffer(buf []byte) *Context {
	return &Context{stack: NewStack(buf)}
}

// Depth reports how many scratch arenas are currently nested.
func (c *Context) Depth() int { return c.depth }

// Destroy releases the context's backing stack. It panics if any
// scratch arena allocated from this context has not yet been released,
// since that would silently leak the nesting invariant.
func (c *Context) Destroy() {
	if c.depth != 0 {
		panic("memory: destroying a context with live scratch arenas")
	}
	c.stack.Destroy()
}
