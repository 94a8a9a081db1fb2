package util

import "iter"

// RingBuf is a fixed-capacity FIFO that overwrites its oldest item when full.
// It is not safe for concurrent use.
type RingBuf[T any] struct {
	items []T
	head  int // index of the oldest item
	size  int
}

func NewRingBuf[T any](capacity int) *RingBuf[T] {
	return &RingBuf[T]{items: make([]T, max(1, capacity))}
}

func (b *RingBuf[T]) Add(item T) {
	capacity := len(b.items)
	tail := (b.head + b.size) % capacity
	b.items[tail] = item
	if b.size == capacity {
		b.head = (b.head + 1) % capacity
	} else {
		b.size++
	}
}

// Get returns the i-th item counting from the oldest one.
func (b *RingBuf[T]) Get(i int) T {
	return b.items[(b.head+i)%len(b.items)]
}

func (b *RingBuf[T]) Last() (T, bool) {
	if b.size == 0 {
		var zero T
		return zero, false
	}
	return b.Get(b.size - 1), true
}

func (b *RingBuf[T]) Size() int {
	return b.size
}

func (b *RingBuf[T]) Cap() int {
	return len(b.items)
}

func (b *RingBuf[T]) Values() []T {
	res := make([]T, 0, b.size)
	for it := range b.Iterator(0, 1) {
		res = append(res, it)
	}
	return res
}

// Iterator walks items starting at position from, moving by step (negative
// step walks towards the oldest item).
func (b *RingBuf[T]) Iterator(from, step int) iter.Seq[T] {
	if step == 0 {
		step = 1
	}
	return func(yield func(T) bool) {
		for i := from; i >= 0 && i < b.size; i += step {
			if !yield(b.Get(i)) {
				return
			}
		}
	}
}
