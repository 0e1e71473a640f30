package ports

import "sync"

// Queue is the hand-off between a producer goroutine and the logic
// goroutine. Items come out in push order.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends an item.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

// Drain removes and returns everything queued so far.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	out := q.items
	q.items = nil
	q.mu.Unlock()
	return out
}

// Len reports how many items are waiting.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
