package comm

// Ring is a fixed-capacity circular byte store used by the transport read
// path to accumulate raw device bytes before frame extraction. When full,
// pushing discards the oldest bytes so the most recent capacity bytes are
// retained.
//
// Ring is not safe for concurrent use. It is owned exclusively by the
// transport's read goroutine.
type Ring struct {
	buf  []byte
	mask int
	head int
	tail int
	size int
}

// NewRing creates a Ring. Capacity is rounded up to the next power of two
// so index arithmetic reduces to masking.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	c := 1
	for c < capacity {
		c <<= 1
	}
	return &Ring{buf: make([]byte, c), mask: c - 1}
}

// Push appends bytes, discarding the oldest on overflow.
func (r *Ring) Push(data []byte) {
	n := len(data)
	if n > len(r.buf) {
		// only the last capacity bytes can survive anyway
		data = data[n-len(r.buf):]
		n = len(data)
	}
	first := copy(r.buf[r.head:], data)
	if first < n {
		copy(r.buf, data[first:])
	}
	r.head = (r.head + n) & r.mask
	if r.size+n > len(r.buf) {
		overflow := r.size + n - len(r.buf)
		r.tail = (r.tail + overflow) & r.mask
		r.size = len(r.buf)
	} else {
		r.size += n
	}
}

// Pop discards the oldest n bytes, clamped to the current occupancy.
func (r *Ring) Pop(n int) {
	if n > r.size {
		n = r.size
	}
	r.tail = (r.tail + n) & r.mask
	r.size -= n
}

// Peek returns the byte at offset from the oldest retained byte without
// removing it. offset must be < Len().
func (r *Ring) Peek(offset int) byte {
	return r.buf[(r.tail+offset)&r.mask]
}

// Len returns the number of buffered bytes.
func (r *Ring) Len() int { return r.size }

// Cap returns the capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Reset empties the ring.
func (r *Ring) Reset() {
	r.head, r.tail, r.size = 0, 0, 0
}
