package barbershop

import "sync"

// WaitingArea is a bounded FIFO guarded by a mutex. Arrivals that find it
// full are turned away without blocking.
type WaitingArea[T any] struct {
	mu       sync.Mutex
	capacity int
	peak     int
	items    []T
}

// NewWaitingArea returns an empty area with room for capacity items.
// It panics if capacity is not positive.
func NewWaitingArea[T any](capacity int) *WaitingArea[T] {
	if capacity <= 0 {
		panic("barbershop: waiting area capacity must be positive")
	}
	return &WaitingArea[T]{
		capacity: capacity,
		items:    make([]T, 0, capacity),
	}
}

// TryEnqueue appends v if a seat is free and reports whether it did.
// A full area is left untouched.
func (w *WaitingArea[T]) TryEnqueue(v T) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.items) >= w.capacity {
		return false
	}
	w.items = append(w.items, v)
	if len(w.items) > w.peak {
		w.peak = len(w.items)
	}
	return true
}

// Dequeue removes and returns the oldest item. Callers must know the area is
// non-empty; an empty dequeue means the availability count has desynchronized
// from the area and panics with ErrEmptyWaitingArea.
func (w *WaitingArea[T]) Dequeue() T {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.items) == 0 {
		panic(ErrEmptyWaitingArea)
	}
	v := w.items[0]
	last := len(w.items) - 1
	copy(w.items, w.items[1:])
	var zero T
	w.items[last] = zero
	w.items = w.items[:last]
	return v
}

// Drain removes and returns every waiting item in arrival order.
func (w *WaitingArea[T]) Drain() []T {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]T, len(w.items))
	copy(out, w.items)
	clear(w.items)
	w.items = w.items[:0]
	return out
}

// Len returns the number of waiting items.
func (w *WaitingArea[T]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Cap returns the number of seats.
func (w *WaitingArea[T]) Cap() int { return w.capacity }

// Peak returns the highest occupancy ever observed.
func (w *WaitingArea[T]) Peak() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.peak
}
