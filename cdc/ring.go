// Package cdc provides the clock domain crossing between the pixel
// clock and the system clock. A bounded single-producer single-consumer
// ring carries the words, and a bridge component moves messages through
// the ring with the two domains ticking at their own frequencies.
package cdc

import (
	"sync/atomic"
)

// A Ring is a bounded lock-free queue for one producer and one
// consumer. The producer only writes tail and the consumer only writes
// head, so neither side ever spins on a lock held by the other.
type Ring[T any] struct {
	buf  []T
	mask uint64

	head atomic.Uint64
	tail atomic.Uint64
}

// NewRing creates a ring that holds at least capacity elements. The
// actual capacity is rounded up to a power of two.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ring capacity must be positive")
	}

	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}

	return &Ring[T]{
		buf:  make([]T, size),
		mask: size - 1,
	}
}

// Cap returns the capacity of the ring.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Len returns the number of queued elements.
func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Push appends an element. It returns false when the ring is full.
// Producer side only.
func (r *Ring[T]) Push(v T) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.buf)) {
		return false
	}

	r.buf[tail&r.mask] = v
	r.tail.Store(tail + 1)

	return true
}

// Pop removes the oldest element. It returns false when the ring is
// empty. Consumer side only.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T

	head := r.head.Load()
	if head == r.tail.Load() {
		return zero, false
	}

	v := r.buf[head&r.mask]
	r.buf[head&r.mask] = zero
	r.head.Store(head + 1)

	return v, true
}
