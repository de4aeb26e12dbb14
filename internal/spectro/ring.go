// SPDX-License-Identifier: MIT
package spectro

// Ring is a bounded FIFO of slices: the rolling-spectrogram state.
// Push never fails; once the buffer is full each push evicts the
// oldest slice, so the length never exceeds the capacity and there is
// never a backlog.
//
// Ring is not safe for concurrent use. The Engine serializes all
// mutation onto its run goroutine; standalone users must do the same.
type Ring struct {
	buf   []Slice
	head  int // index of the oldest slice
	count int
}

// NewRing creates a ring holding at most capacity slices.
// Non-positive capacities fall back to DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]Slice, capacity)}
}

// Cap returns the fixed maximum number of slices.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Len returns the current number of slices.
func (r *Ring) Len() int {
	return r.count
}

// Push appends s as the newest slice, evicting the oldest when full.
// Allocation-free.
func (r *Ring) Push(s Slice) {
	tail := (r.head + r.count) % len(r.buf)
	r.buf[tail] = s
	if r.count < len(r.buf) {
		r.count++
	} else {
		r.head = (r.head + 1) % len(r.buf)
	}
}

// Snapshot appends the current slices to dst, oldest first, and
// returns it. Pass a reusable slice to avoid allocation.
func (r *Ring) Snapshot(dst []Slice) []Slice {
	for i := range r.count {
		dst = append(dst, r.buf[(r.head+i)%len(r.buf)])
	}
	return dst
}
