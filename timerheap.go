package asyncrt

import (
	"container/heap"
	"time"
)

// timerEntry is a single registered timer: the instant it was registered,
// the requested duration, and the waker to invoke once elapsed. The elapsed
// flag is stored here and set by Reactor.advanceTimers, which compares the
// clock against the deadline (strict greater-than, per the original timer's
// update_elapsed).
type timerEntry struct {
	name       string
	registered time.Time
	duration   time.Duration
	waker      *waker
	elapsed    bool
	index      int // heap index, maintained by container/heap
}

func (t *timerEntry) deadline() time.Time {
	return t.registered.Add(t.duration)
}

// timerHeap is a min-heap over deadlines, grounded on the teacher's own use
// of container/heap for its timer wheel (eventloop/loop.go runTimers).
type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	return h[i].deadline().Before(h[j].deadline())
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

func (h *timerHeap) remove(e *timerEntry) {
	if e.index < 0 || e.index >= len(*h) {
		return
	}
	heap.Remove(h, e.index)
}
