package effect

import (
	"github.com/framekit/framekit/internal/core/state"
	"github.com/framekit/framekit/internal/core/task"
)

// Pause returns an effect that pauses the task with id at path. Progress
// stays frozen until Resume. Unknown ids are ignored.
func Pause(path []string, id string) state.Effect {
	return withRuntime(path, id, func(rt *task.Runtime) { rt.Pause() })
}

// Resume returns an effect that clears the paused flag of the task with id
// at path. The paused interval is folded into the start time by the next
// frame, not here, so calling Resume twice is harmless.
func Resume(path []string, id string) state.Effect {
	return withRuntime(path, id, func(rt *task.Runtime) { rt.Resume() })
}

// Toggle pauses a running task and resumes a paused one.
func Toggle(path []string, id string) state.Effect {
	return withRuntime(path, id, func(rt *task.Runtime) {
		if rt.Paused() {
			rt.Resume()
			return
		}
		rt.Pause()
	})
}

// Cancel returns an effect that ends the task with id at path before it
// completes. The task is removed and its Finish runs exactly once, so
// cleanup such as clearing hints happens for cancelled animations too. A
// task that already finished is left alone.
func Cancel(path []string, id string) state.Effect {
	return func(dispatch state.Dispatch) {
		dispatch(func(s state.Snapshot) (state.Snapshot, state.Effect) {
			t, ok := task.Find(s, path, id)
			if !ok {
				return s, nil
			}
			next := task.Remove(s, path, id)
			if rt := t.Runtime(); rt != nil && !rt.MarkDone() {
				return next, nil
			}
			if t.Finish == nil {
				return next, nil
			}
			return t.Finish(next, t)
		})
	}
}

func withRuntime(path []string, id string, fn func(rt *task.Runtime)) state.Effect {
	return func(dispatch state.Dispatch) {
		dispatch(func(s state.Snapshot) (state.Snapshot, state.Effect) {
			if t, ok := task.Find(s, path, id); ok && t.HasRuntime() {
				fn(t.Runtime())
			}
			return s, nil
		})
	}
}
