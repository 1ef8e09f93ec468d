package wm

import (
	"container/heap"

	"github.com/kvark-wm/bunnuafeth/store"
)

// DragSession tracks an in-progress floating-window move. Anchor is the
// offset added to the pointer's root position to get the window's new
// (x, y) on every MotionNotify.
type DragSession struct {
	Window  store.Window
	AnchorX int16
	AnchorY int16
}

// ResizeSession tracks an in-progress floating-window resize. Anchor
// and the initial size let every MotionNotify recompute width/height
// from the pointer's current offset.
type ResizeSession struct {
	Window      store.Window
	AnchorX     int16
	AnchorY     int16
	StartWidth  uint16
	StartHeight uint16
}

// seq is a 16-bit wire sequence number with wraparound-aware ordering.
type seq uint16

// olderThan reports whether a is strictly older than b on a clock that
// wraps at 65536: true iff a-b, computed with unsigned wraparound,
// falls in the "more than halfway around" half of the ring.
func (a seq) olderThan(b seq) bool {
	return seq(a-b) > 0xffff/2
}

// seqHeap is a min-heap of sequence numbers.
type seqHeap []seq

func (h seqHeap) Len() int            { return len(h) }
func (h seqHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h seqHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *seqHeap) Push(x interface{}) { *h = append(*h, x.(seq)) }
func (h *seqHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// ignoreSet implements the sequence-ignore protocol from spec.md §5:
// every request whose server-synthesized echo event should be
// suppressed records its sequence number here. On each incoming event,
// Consume pops every entry strictly older than the event (wraparound-
// aware) and reports whether the event itself should be dropped.
type ignoreSet struct {
	h seqHeap
}

func newIgnoreSet() *ignoreSet {
	is := &ignoreSet{}
	heap.Init(&is.h)
	return is
}

// Add records s as an echo to ignore.
func (is *ignoreSet) Add(s uint16) {
	heap.Push(&is.h, seq(s))
}

// Consume pops stale entries and reports whether eventSeq matches the
// top of the heap (in which case it also pops it, so later identical
// sequence numbers are not silently swallowed a second time).
func (is *ignoreSet) Consume(eventSeq uint16) bool {
	e := seq(eventSeq)
	for is.h.Len() > 0 {
		top := is.h[0]
		if top.olderThan(e) {
			heap.Pop(&is.h)
			continue
		}
		break
	}
	if is.h.Len() > 0 && is.h[0] == e {
		heap.Pop(&is.h)
		return true
	}
	return false
}
