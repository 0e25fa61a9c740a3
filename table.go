package asyncrt

import (
	"sync"

	"github.com/google/uuid"
)

// taskTable maps task ids to suspended tasks. Insert and Remove are safe to
// call from any goroutine (wakers, Spawn calls from inside a poll); the
// executor alone ever calls get to poll a task, since it is the sole poller.
//
// Grounded on the teacher's registry.go single-writer locked map, simplified
// since this runtime has no need for weak-pointer GC scavenging: a task's
// lifetime is bounded by its own completion or explicit cancellation.
type taskTable struct {
	mu    sync.RWMutex
	tasks map[taskID]*task
}

func newTaskTable() *taskTable {
	return &taskTable{tasks: make(map[taskID]*task)}
}

func newTaskID() taskID {
	return taskID(uuid.NewString())
}

func (t *taskTable) insert(tk *task) {
	t.mu.Lock()
	t.tasks[tk.id] = tk
	t.mu.Unlock()
}

func (t *taskTable) get(id taskID) (*task, bool) {
	t.mu.RLock()
	tk, ok := t.tasks[id]
	t.mu.RUnlock()
	return tk, ok
}

func (t *taskTable) remove(id taskID) {
	t.mu.Lock()
	delete(t.tasks, id)
	t.mu.Unlock()
}

func (t *taskTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.tasks)
}

func (t *taskTable) isEmpty() bool {
	return t.len() == 0
}
