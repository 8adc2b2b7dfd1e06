package ladderwatch

// QueueItem is a unit of ingestion work.
// Items are produced by discovery or priority injection and consumed once.
type QueueItem struct {
	CharacterName string
	SourceAccount string
}

// WorkQueue is the ordered queue shared by producers and the consumer.
type WorkQueue interface {
	// PushBack appends an item at the tail of the queue.
	PushBack(item QueueItem)

	// PushFront inserts an item at the head of the queue.
	PushFront(item QueueItem)

	// PopFront removes and returns the head of the queue.
	// Returns false if the queue is empty.
	PopFront() (QueueItem, bool)

	// Len returns the number of queued items.
	Len() int
}
