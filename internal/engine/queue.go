package engine

import "sync"

// queue is an unbounded FIFO handing transactions from producers to one
// shard worker. Send never blocks and never fails on capacity: the backing
// ring doubles whenever it fills. After Close, Send refuses new items while
// Receive keeps draining whatever remains and only then reports closed.
type queue[T any] struct {
	mu     sync.Mutex
	ready  *sync.Cond
	items  []T
	head   int // read position
	count  int
	closed bool

	// Counters for Stats
	enqueued int64
	dequeued int64
	grows    int
}

// newQueue creates a queue with the given initial ring capacity.
func newQueue[T any](capacity int) *queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	q := &queue[T]{items: make([]T, capacity)}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// Send appends an item, growing the ring if it is full.
// Returns false if the queue is closed.
func (q *queue[T]) Send(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if q.count == len(q.items) {
		q.grow()
	}

	q.items[(q.head+q.count)%len(q.items)] = item
	q.count++
	q.enqueued++

	q.ready.Signal()
	return true
}

// Receive removes and returns the oldest item, blocking until one is
// available or the queue is closed. The second return is false only once
// the queue is closed and fully drained.
func (q *queue[T]) Receive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.ready.Wait()
	}

	var zero T
	if q.count == 0 {
		return zero, false
	}

	item := q.items[q.head]
	q.items[q.head] = zero // release the slot for GC
	q.head = (q.head + 1) % len(q.items)
	q.count--
	q.dequeued++

	return item, true
}

// Close stops admission and wakes every blocked receiver. Items already
// queued remain receivable.
func (q *queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.ready.Broadcast()
}

// Len returns the number of queued items.
func (q *queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Stats returns a point-in-time copy of the queue counters.
func (q *queue[T]) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Depth:    q.count,
		Capacity: len(q.items),
		Enqueued: q.enqueued,
		Dequeued: q.dequeued,
		Grows:    q.grows,
	}
}

// QueueStats is a point-in-time view of one shard queue.
type QueueStats struct {
	Depth    int
	Capacity int
	Enqueued int64
	Dequeued int64
	Grows    int
}

// grow doubles the ring. Only called with the ring full and mu held, so the
// occupied region is exactly [head:] followed by [:head].
func (q *queue[T]) grow() {
	bigger := make([]T, len(q.items)*2)
	n := copy(bigger, q.items[q.head:])
	copy(bigger[n:], q.items[:q.head])
	q.items = bigger
	q.head = 0
	q.grows++
}
