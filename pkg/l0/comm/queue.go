package comm

import (
	"sync"
)

// Queue is an unbounded FIFO safe for any number of producers and
// consumers. It carries assembled inbound payloads and outbound frames
// between the I/O goroutines and their callers; bounding memory is the
// caller's responsibility via consumption cadence.
type Queue[T any] struct {
	lock   sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
}

// NewQueue creates a Queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.lock)
	return q
}

// Push enqueues a value and wakes one waiting consumer. Push after Close
// is a no-op.
func (q *Queue[T]) Push(v T) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, v)
	q.cond.Signal()
}

// TryPop removes the oldest value without blocking.
func (q *Queue[T]) TryPop() (v T, ok bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.pop()
}

// Pop blocks until a value is available or the queue is closed. After
// close, remaining values are still drained in order; once empty it
// returns the zero value and false.
func (q *Queue[T]) Pop() (v T, ok bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	return q.pop()
}

// Empty reports whether the queue currently has no items. The result is
// advisory only.
func (q *Queue[T]) Empty() bool {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.items) == 0
}

// Close wakes all blocked consumers. Queued items remain poppable.
func (q *Queue[T]) Close() {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *Queue[T]) pop() (v T, ok bool) {
	if len(q.items) == 0 {
		return
	}
	v, ok = q.items[0], true
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return
}
