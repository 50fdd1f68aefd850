// Package task defines the unit of frame-scheduled work and the registry
// operations that keep a list of tasks inside a state snapshot.
package task

import (
	"cmp"
	"slices"
	"time"

	"github.com/framekit/framekit/internal/core/state"
)

// Func is the signature of a task's per-frame action and of its finish
// callback. Returning a nil Effect is the bare-snapshot form.
type Func func(s state.Snapshot, t Task) (state.Snapshot, state.Effect)

// Task is one scheduled animation or unit of work.
type Task struct {
	// ID is unique among the tasks stored at one path.
	ID string
	// GroupID is an optional tag. The scheduler does not interpret it.
	GroupID string
	// Duration is the nominal time for progress to reach 1.
	Duration time.Duration
	// Delay offsets the start from the first frame that observes the task.
	Delay time.Duration
	// Priority orders tasks within a frame, highest first.
	Priority int

	Action Func
	Finish Func

	// Extension is owned by the effect that created the task.
	Extension any

	runtime *Runtime
}

// New returns t with a fresh runtime attached.
func New(t Task) Task {
	t.runtime = NewRuntime()
	return t
}

// Runtime returns the task's timing record. It is nil only for tasks that
// were never passed through New or Put.
func (t Task) Runtime() *Runtime {
	return t.runtime
}

// HasRuntime reports whether a runtime is attached.
func (t Task) HasRuntime() bool {
	return t.runtime != nil
}

// Progress returns the completed fraction in [0, 1].
func (t Task) Progress() float64 {
	if t.runtime == nil {
		return 0
	}
	return t.runtime.Progress(t.Duration)
}

// DeltaTime returns the time since the previous processed frame.
func (t Task) DeltaTime() time.Duration {
	if t.runtime == nil {
		return 0
	}
	return t.runtime.DeltaTime()
}

// Done reports whether the task reached its terminal state.
func (t Task) Done() bool {
	return t.runtime != nil && t.runtime.Done()
}

// Paused reports whether the task is paused.
func (t Task) Paused() bool {
	return t.runtime != nil && t.runtime.Paused()
}

func (t Task) ensureRuntime() Task {
	if t.runtime == nil {
		t.runtime = NewRuntime()
	}
	return t
}

// List returns the tasks stored at path, or nil.
func List(s state.Snapshot, path []string) []Task {
	return state.Get[[]Task](s, path, nil)
}

// Find returns the task with id stored at path.
func Find(s state.Snapshot, path []string, id string) (Task, bool) {
	for _, t := range List(s, path) {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Put stores t at path, replacing any task with the same id. A runtime is
// attached when t has none.
func Put(s state.Snapshot, path []string, t Task) state.Snapshot {
	current := List(s, path)
	next := make([]Task, 0, len(current)+1)
	for _, existing := range current {
		if existing.ID != t.ID {
			next = append(next, existing)
		}
	}
	next = append(next, t.ensureRuntime())
	return state.Set(s, path, next)
}

// Remove drops the task with id from the list at path. The snapshot is
// returned unchanged when no such task exists.
func Remove(s state.Snapshot, path []string, id string) state.Snapshot {
	current := List(s, path)
	idx := slices.IndexFunc(current, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return s
	}
	next := make([]Task, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	return state.Set(s, path, next)
}

// SortByPriority returns a copy of tasks ordered by descending priority.
// Tasks with equal priority keep their relative order.
func SortByPriority(tasks []Task) []Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b Task) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return sorted
}
