// SPDX-License-Identifier: MIT
package spectro

import (
	"sync"
	"sync/atomic"
)

// Engine ties the slice builder, the ring buffer, and the axis planner
// together behind the single-producer/single-consumer model:
//
//   - OnTick runs on the producing audio goroutine. It builds the
//     slice there (pure, CPU-bound) and hands the finished slice off
//     through a buffered channel. A full channel drops the whole
//     slice; partial slices are never published.
//   - One run goroutine receives slices and is the sole writer of the
//     ring buffer.
//   - Slices returns a snapshot copy for renderers; AxisLabels is a
//     pure passthrough to the planner.
//
// Metadata arrives as a per-tick snapshot and the gradient is copied
// at build time, so neither change can rewrite slices already in the
// ring.
type Engine struct {
	width  int
	height int
	axis   AxisPlanner

	mu       sync.RWMutex
	ring     *Ring
	gradient Gradient

	in      chan Slice
	done    chan struct{}
	stop    sync.Once
	wg      sync.WaitGroup
	notify  func(Slice)
	dropped atomic.Uint64
}

// NewEngine starts an engine with the given ring capacity, slice pixel
// dimensions, and initial gradient. notify, if non-nil, is invoked
// from the run goroutine for every slice that enters the ring; it must
// not block. Close releases the run goroutine.
func NewEngine(capacity, width, height int, grad Gradient, notify func(Slice)) (*Engine, error) {
	if grad.Len() == 0 {
		return nil, ErrEmptyGradient
	}
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	e := &Engine{
		width:    width,
		height:   height,
		ring:     NewRing(capacity),
		gradient: grad,
		in:       make(chan Slice, 8),
		done:     make(chan struct{}),
		notify:   notify,
	}
	e.wg.Add(1)
	go e.run()
	return e, nil
}

// OnTick consumes one interleaved magnitude tick. Runs on the
// producer's goroutine; the tick slice is not retained past the call,
// so producers may reuse their buffer. Ticks with a bad length or
// invalid metadata are dropped whole.
func (e *Engine) OnTick(samples []float64, meta Metadata) {
	if len(samples) != meta.TickLen() || meta.Validate() != nil {
		e.dropped.Add(1)
		return
	}
	e.mu.RLock()
	grad := e.gradient
	e.mu.RUnlock()

	s := BuildSlice(samples, meta, grad, e.width, e.height)
	select {
	case e.in <- s:
	case <-e.done:
	default:
		// Consumer behind; drop the slice rather than block the
		// audio path.
		e.dropped.Add(1)
	}
}

func (e *Engine) run() {
	defer e.wg.Done()
	for {
		select {
		case s := <-e.in:
			e.mu.Lock()
			e.ring.Push(s)
			e.mu.Unlock()
			if e.notify != nil {
				e.notify(s)
			}
		case <-e.done:
			// Flush slices already handed off before shutdown.
			for {
				select {
				case s := <-e.in:
					e.mu.Lock()
					e.ring.Push(s)
					e.mu.Unlock()
					if e.notify != nil {
						e.notify(s)
					}
				default:
					return
				}
			}
		}
	}
}

// Slices returns a snapshot of the rolling history, oldest first. The
// returned slice is the caller's to keep.
func (e *Engine) Slices() []Slice {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ring.Snapshot(make([]Slice, 0, e.ring.Len()))
}

// Len returns the current number of buffered slices.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ring.Len()
}

// AxisLabels plans the frequency axis for the given range and height.
func (e *Engine) AxisLabels(minFreq, maxFreq, height float64) []Label {
	return e.axis.Labels(minFreq, maxFreq, height)
}

// SetGradient swaps the gradient used for subsequently built slices.
// Buffered slices keep their colors.
func (e *Engine) SetGradient(grad Gradient) error {
	if grad.Len() == 0 {
		return ErrEmptyGradient
	}
	e.mu.Lock()
	e.gradient = grad
	e.mu.Unlock()
	return nil
}

// Dropped returns how many ticks or slices were discarded because of
// bad input or a saturated hand-off channel.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

// Close stops the run goroutine. Safe to call more than once. Slices
// remains usable after Close; OnTick becomes a drop-everything no-op
// once the hand-off channel has no receiver.
func (e *Engine) Close() error {
	e.stop.Do(func() {
		close(e.done)
	})
	e.wg.Wait()
	return nil
}
