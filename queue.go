package touchline

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO handing items from one producer goroutine to one
// consumer goroutine. Push never blocks and never drops; the consumer runs
// queued items in push order from Drain, typically once per frame.
//
// Items pushed before Push returns are fully visible to the consumer.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	spare []T
	ready chan struct{}
}

// NewQueue creates a queue with room for capacity items before it grows.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue[T]{
		items: make([]T, 0, capacity),
		spare: make([]T, 0, capacity),
		ready: make(chan struct{}, 1),
	}
}

// Push appends v to the queue.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain runs fn on every queued item in push order, synchronously on the
// calling goroutine. Items pushed while fn runs are left for the next Drain.
// The pointer passed to fn is only valid for the duration of the call.
// Drain returns the number of items run.
func (q *Queue[T]) Drain(fn func(*T)) int {
	q.mu.Lock()
	batch := q.items
	q.items = q.spare[:0]
	q.spare = nil
	q.mu.Unlock()

	var zero T
	for i := range batch {
		fn(&batch[i])
		batch[i] = zero
	}

	q.mu.Lock()
	q.spare = batch[:0]
	q.mu.Unlock()
	return len(batch)
}

// DrainWait waits until at least one item is queued or ctx is done, then
// drains. It returns ctx.Err() if ctx ends before anything arrives.
func (q *Queue[T]) DrainWait(ctx context.Context, fn func(*T)) (int, error) {
	for {
		if n := q.Drain(fn); n > 0 {
			return n, nil
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Discard drops every queued item at once and returns how many were dropped.
// It is meant for shutdown, when the consumer will never drain again.
func (q *Queue[T]) Discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	clear(q.items)
	q.items = q.items[:0]
	return n
}
