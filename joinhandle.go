package asyncrt

import "context"

// JoinHandle is a Future over a spawned task's eventual result, backed by
// the task's single-write completion slot. Grounded on the teacher's
// Promise (eventloop/promise.go): waking a suspended poller is the same
// synchronous subscriber fan-out as Promise.Resolve, done in task.complete.
type JoinHandle[T any] struct {
	t     *task
	table *taskTable
}

func newJoinHandle[T any](t *task, table *taskTable) *JoinHandle[T] {
	return &JoinHandle[T]{t: t, table: table}
}

// Poll implements Future: it is Ready once the underlying task's completion
// slot has been written. The ready value is the task's result, or the task's
// error (such as a *CancelledError or *PanicError) if it failed.
func (h *JoinHandle[T]) Poll(ctx context.Context) (any, bool) {
	select {
	case <-h.t.done:
		v, err := h.result()
		if err != nil {
			return err, true
		}
		return v, true
	default:
	}
	if w := WakerFromContext(ctx); w != nil {
		h.t.addWaiter(w)
	}
	return nil, false
}

func (h *JoinHandle[T]) result() (T, error) {
	var zero T
	if h.t.err != nil {
		return zero, h.t.err
	}
	if v, ok := h.t.result.(T); ok {
		return v, nil
	}
	return zero, nil
}

// Await blocks the calling goroutine on the task's completion channel until
// the task completes or ctx is done, returning its value and error. It does
// not register a waker and does not yield to the Executor.
func (h *JoinHandle[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-h.t.done:
		return h.result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel removes the underlying task from its Executor's task table and
// drops its state machine. Any future Await on this handle resolves with a
// *CancelledError. Cancel is a no-op if the task has already completed.
func (h *JoinHandle[T]) Cancel() {
	select {
	case <-h.t.done:
		return
	default:
	}
	h.table.remove(h.t.id)
	dropFuture(h.t.future)
	h.t.complete(nil, &CancelledError{TaskID: string(h.t.id)})
}
