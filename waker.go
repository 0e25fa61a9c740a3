package asyncrt

// waker is a reference to a task's ready-queue slot. Calling wake is
// idempotent in effect: duplicate pushes for the same task id are tolerated
// by the ready queue and collapse to at-least-one re-poll.
//
// Grounded on the original engine's FutureWaker (a channel-based wake
// signal) generalized to push directly onto the shared ready queue rather
// than synchronizing through a channel, since the executor here is always
// single-threaded.
type waker struct {
	id    taskID
	queue *readyQueue
}

// Wake requests another poll of the task this waker was issued for. Safe to
// call from any goroutine, including from inside the task's own poll
// (self-wake) and from the Reactor after detecting readiness.
func (w *waker) Wake() {
	if w == nil || w.queue == nil {
		return
	}
	w.queue.push(w.id)
}

func newWaker(id taskID, q *readyQueue) *waker {
	return &waker{id: id, queue: q}
}
