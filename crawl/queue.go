package crawl

import (
	"container/list"
	"sync"

	"github.com/fwojciec/ladderwatch"
)

// Compile-time interface verification.
var _ ladderwatch.WorkQueue = (*Queue)(nil)

// Queue is the in-memory work queue shared by the producers and the consumer.
// Discovery appends at the tail, priority injection inserts at the head.
// Items are not deduplicated. It is safe for concurrent use by multiple goroutines.
type Queue struct {
	mu    sync.Mutex
	items *list.List
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{items: list.New()}
}

// PushBack appends an item at the tail of the queue.
func (q *Queue) PushBack(item ladderwatch.QueueItem) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.PushBack(item)
}

// PushFront inserts an item at the head of the queue.
func (q *Queue) PushFront(item ladderwatch.QueueItem) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.PushFront(item)
}

// PopFront removes and returns the head of the queue.
// The bool result is false if the queue is empty.
func (q *Queue) PopFront() (ladderwatch.QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e := q.items.Front()
	if e == nil {
		return ladderwatch.QueueItem{}, false
	}
	q.items.Remove(e)
	item, _ := e.Value.(ladderwatch.QueueItem)
	return item, true
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}
