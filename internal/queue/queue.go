// Package queue implements FIFO queues used by grammar graph walks.
package queue

const minSize = 3

// Queue is a ring buffer FIFO queue. Capacity is always 2^n - 1.
type Queue[T any] struct {
	items      []T
	size       int
	head, tail int
	zero       T
}

// New creates a queue containing given items.
func New[T any](items ...T) *Queue[T] {
	q := &Queue[T]{}
	l := len(items)
	q.tail = l
	q.size = computeSize(l)
	q.items = make([]T, q.size+1)
	copy(q.items, items)
	return q
}

// IsEmpty reports whether the queue has no items.
func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

// Items returns queued items, head first.
func (q *Queue[T]) Items() []T {
	result := make([]T, q.Len())
	if q.tail >= q.head {
		copy(result, q.items[q.head:q.tail])
	} else {
		n := copy(result, q.items[q.head:q.size+1])
		copy(result[n:], q.items[:q.tail])
	}
	return result
}

// Append adds an item to the tail.
func (q *Queue[T]) Append(item T) *Queue[T] {
	q.items[q.tail] = item
	q.tail = (q.tail + 1) & q.size
	if q.tail == q.head {
		q.grow()
	}
	return q
}

// First removes and returns the head item, false if the queue is empty.
func (q *Queue[T]) First() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}

	result := q.items[q.head]
	q.items[q.head] = q.zero
	q.head = (q.head + 1) & q.size
	return result, true
}

func computeSize(length int) int {
	if length <= minSize {
		return minSize
	}

	length |= length >> 1
	length |= length >> 2
	length |= length >> 4
	length |= length >> 8
	length |= length >> 16
	return length
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.size+1)<<1)
	n := copy(items, q.items[q.head:])
	copy(items[n:], q.items[:q.head])
	q.head = 0
	q.tail = q.size + 1
	q.size = len(items) - 1
	q.items = items
}

// Worklist is a queue that accepts each key at most once during its lifetime.
type Worklist[K comparable] struct {
	queue *Queue[K]
	seen  map[K]bool
}

// NewWorklist creates a worklist seeded with given keys.
func NewWorklist[K comparable](keys ...K) *Worklist[K] {
	w := &Worklist[K]{New[K](), make(map[K]bool)}
	for _, k := range keys {
		w.Push(k)
	}
	return w
}

// Push queues a key unless it was queued before. Returns true if the key is new.
func (w *Worklist[K]) Push(k K) bool {
	if w.seen[k] {
		return false
	}

	w.seen[k] = true
	w.queue.Append(k)
	return true
}

// Pop removes and returns the oldest queued key.
func (w *Worklist[K]) Pop() (K, bool) {
	return w.queue.First()
}

// Seen reports whether a key was ever pushed.
func (w *Worklist[K]) Seen(k K) bool {
	return w.seen[k]
}
