package pool

import (
	"time"
)

// Queue is a bounded FIFO that hands buffers from one goroutine to another.
// The same type serves as a pool of spare buffers and as a queue of filled ones.
type Queue[T any] struct {
	items chan T
}

func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{items: make(chan T, capacity)}
}

// New returns a queue that already holds n buffers built by alloc.
func New[T any](n int, alloc func() T) *Queue[T] {
	q := NewQueue[T](n)
	for i := 0; i < n; i++ {
		q.items <- alloc()
	}
	return q
}

// Offer adds v without blocking. It reports false when the queue is full.
func (q *Queue[T]) Offer(v T) bool {
	select {
	case q.items <- v:
		return true
	default:
		return false
	}
}

// OfferTimeout waits up to timeout for room in the queue.
func (q *Queue[T]) OfferTimeout(v T, timeout time.Duration) bool {
	if q.Offer(v) {
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case q.items <- v:
		return true
	case <-t.C:
		return false
	}
}

// Poll removes the head without blocking.
func (q *Queue[T]) Poll() (T, bool) {
	select {
	case v := <-q.items:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// PollTimeout waits up to timeout for an element.
func (q *Queue[T]) PollTimeout(timeout time.Duration) (T, bool) {
	if v, ok := q.Poll(); ok {
		return v, true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case v := <-q.items:
		return v, true
	case <-t.C:
		var zero T
		return zero, false
	}
}

func (q *Queue[T]) Len() int {
	return len(q.items)
}

func (q *Queue[T]) Cap() int {
	return cap(q.items)
}

// C exposes the receive side for use in select statements.
func (q *Queue[T]) C() <-chan T {
	return q.items
}
