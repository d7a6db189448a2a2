package container

// RingBuffer is a byte-oriented circular buffer guarding against overlap
// with a watermark, matching original_source/Athena/ring_buffer.{h,cpp}
// exactly — including its documented off-by-one: Push rejects a write
// that would make the buffer look full by using "<=" where a "<" would
// reclaim the final byte of capacity. Spec §9's design notes instruct
// keeping this rather than silently fixing it, flagging it as a known
// limitation instead: a RingBuffer of size N can hold at most N-1 bytes.
type RingBuffer struct {
	buf       []byte
	write     int
	read      int
	watermark int
}

// NewRingBuffer constructs a RingBuffer over a capacity-byte buffer. As
// documented above, at most capacity-1 bytes can be held live at once.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{buf: make([]byte, capacity), watermark: capacity}
}

// TryPush copies data into the ring, wrapping at the watermark when the
// write cursor reaches the end. It returns false, leaving the buffer
// unmodified, if there is not enough room.
func (r *RingBuffer) TryPush(data []byte) bool {
	size := len(data)
	watermark := r.watermark
	write := r.write

	if write >= r.read {
		if len(r.buf)-write > size {
			copy(r.buf[write:], data)
			r.write += size
			return true
		}
		watermark = write
		write = 0
	}

	// Deliberately "<=" rather than "<": see the type doc comment.
	if r.read-write <= size {
		return false
	}

	copy(r.buf[write:], data)
	write += size

	r.watermark = watermark
	r.write = write
	return true
}

// Push is TryPush but panics on failure, for callers that have already
// reserved capacity and treat overflow as a programming error.
func (r *RingBuffer) Push(data []byte) {
	if !r.TryPush(data) {
		panic("container: ring buffer push overflowed capacity")
	}
}

// TryPop copies size bytes out of the ring into out (if non-nil) and
// advances the read cursor. It returns false, leaving the buffer
// unmodified, if fewer than size bytes are available.
func (r *RingBuffer) TryPop(size int, out []byte) bool {
	// copyAddr is captured from the read cursor before any wrap
	// adjustment below, faithfully matching the source's own ordering.
	copyAddr := r.read
	read := r.read

	if r.write >= read {
		if r.write-read < size {
			return false
		}
		read += size
	} else {
		if read >= r.watermark {
			read = 0
		}
		if r.watermark-read < size {
			return false
		}
		read += size
	}

	r.read = read
	if out != nil {
		copy(out, r.buf[copyAddr:copyAddr+size])
	}
	return true
}

// Pop is TryPop but panics on failure.
func (r *RingBuffer) Pop(size int, out []byte) {
	if !r.TryPop(size, out) {
		panic("container: ring buffer pop underflowed available bytes")
	}
}

// Empty reports whether the ring currently holds zero bytes.
func (r *RingBuffer) Empty() bool { return r.read == r.write }
