package main

import "container/heap"

// MaxTickDelta caps the simulation step so a long frame gap (paused host,
// backgrounded tab on the client side) cannot destabilize integration.
const MaxTickDelta = 0.1

// Clock is the simulation clock. All timing in the core reads it instead of
// the wall clock, so behavior is reproducible in tests.
type Clock struct {
	now    float64
	events eventHeap
}

// NewClock returns a clock at time zero with an empty event queue.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current simulation time in seconds.
func (c *Clock) Now() float64 {
	return c.now
}

// Advance moves the clock forward by dt (clamped to MaxTickDelta) and runs
// every event whose due time has been reached, in due-time order. Returns the
// clamped dt actually applied.
func (c *Clock) Advance(dt float64) float64 {
	if dt < 0 {
		dt = 0
	}
	if dt > MaxTickDelta {
		dt = MaxTickDelta
	}
	c.now += dt
	for len(c.events) > 0 && c.events[0].due <= c.now {
		ev := heap.Pop(&c.events).(event)
		ev.fn()
	}
	return dt
}

// Schedule queues fn to run once delay seconds of simulation time have
// elapsed. Events fire inside Advance, never from a host timer, so owners
// must guard with a liveness flag rather than rely on cancellation.
func (c *Clock) Schedule(delay float64, fn func()) {
	if delay < 0 {
		delay = 0
	}
	heap.Push(&c.events, event{due: c.now + delay, fn: fn})
}

// Pending returns the number of queued events.
func (c *Clock) Pending() int {
	return len(c.events)
}

type event struct {
	due float64
	fn  func()
}

type eventHeap []event

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return h[i].due < h[j].due }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) { *h = append(*h, x.(event)) }
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ev := old[n-1]
	*h = old[:n-1]
	return ev
}
