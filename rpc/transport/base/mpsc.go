package base

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// node is one element of the linked list behind MPSC
type node[T any] struct {
	value *T
	next  atomic.Pointer[node[T]]
}

// MPSC is an unbounded lock-free multi-producer single-consumer queue. Any
// number of goroutines may Push; one goroutine drains Recv. Items pushed by one
// goroutine arrive in the order they were pushed.
type MPSC[T any] struct {
	head   atomic.Pointer[node[T]]
	tail   atomic.Pointer[node[T]]
	out    chan *T
	closed atomic.Bool

	// wakes the consumer when the list runs empty
	mu   sync.Mutex
	cond *sync.Cond
}

// NewMPSC creates a queue and starts the goroutine feeding Recv
func NewMPSC[T any]() *MPSC[T] {
	sentinel := &node[T]{}
	q := &MPSC[T]{out: make(chan *T)}
	q.cond = sync.NewCond(&q.mu)
	q.head.Store(sentinel)
	q.tail.Store(sentinel)

	go q.consume()
	return q
}

// Push appends value. It returns false if value is nil or the queue is closed.
func (q *MPSC[T]) Push(value *T) bool {
	if value == nil || q.closed.Load() {
		return false
	}

	n := &node[T]{value: value}
	var backoff uint8
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if next == nil {
			if tail.next.CompareAndSwap(nil, n) {
				// a failed CAS means another producer already moved the tail
				q.tail.CompareAndSwap(tail, n)
				q.mu.Lock()
				q.cond.Signal()
				q.mu.Unlock()
				return true
			}
		} else {
			q.tail.CompareAndSwap(tail, next)
		}

		// spin briefly under low contention, then yield
		if backoff < 10 {
			backoff++
			for i := 0; i < 1<<backoff; i++ {
				runtime.Gosched()
			}
		}
		runtime.Gosched()
	}
}

// consume moves items from the list to the output channel until the queue is
// closed and drained
func (q *MPSC[T]) consume() {
	defer close(q.out)

	for {
		drained := false
		for {
			head := q.head.Load()
			next := head.next.Load()
			if next == nil {
				break
			}
			drained = true
			value := next.value
			q.head.Store(next)
			q.out <- value
			next.value = nil
		}

		if !drained && q.closed.Load() {
			return
		}
		if !drained {
			q.mu.Lock()
			if q.head.Load().next.Load() == nil && !q.closed.Load() {
				q.cond.Wait()
			}
			q.mu.Unlock()
		}
	}
}

// Recv returns the channel the items are delivered on. It is closed once the
// queue is closed and every pushed item was delivered.
func (q *MPSC[T]) Recv() <-chan *T {
	return q.out
}

// Close rejects further pushes. Items already queued are still delivered.
func (q *MPSC[T]) Close() {
	q.closed.Store(true)
	q.mu.Lock()
	q.cond.Signal()
	q.mu.Unlock()
}

// IsClosed reports whether Close was called
func (q *MPSC[T]) IsClosed() bool {
	return q.closed.Load()
}
