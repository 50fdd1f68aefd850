package frame

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/framekit/framekit/internal/cmn/logger"
	"github.com/framekit/framekit/internal/cmn/logger/tag"
	"github.com/framekit/framekit/internal/core/state"
	"github.com/framekit/framekit/internal/core/task"
)

// Stats counts the work done by a Manager.
type Stats struct {
	Ticks    int
	Actions  int
	Finished int
}

// Manager runs every task stored at one path of the host state from a
// single chain of frame requests. At most one request is outstanding at any
// time, however many tasks share the path.
//
// Frame callbacks never touch the state directly; each frame is dispatched
// to the host as an action, so all task and runtime mutation happens on the
// host's update loop.
type Manager struct {
	dispatch state.Dispatch
	source   Source
	path     []string
	logger   logger.Logger

	mu      sync.Mutex
	handle  Handle
	pending bool
	gen     uint64
	stats   Stats
}

// NewManager returns a manager for the task list at path. dispatch must
// enqueue actions on the host update loop.
func NewManager(ctx context.Context, dispatch state.Dispatch, source Source, path []string) *Manager {
	return &Manager{
		dispatch: dispatch,
		source:   source,
		path:     slices.Clone(path),
		logger:   logger.FromContext(ctx).With(tag.Path(path)),
	}
}

// Path returns the state path this manager drives.
func (m *Manager) Path() []string {
	return slices.Clone(m.path)
}

// Activate returns the priority-sorted task list at the manager's path.
// When the list is non-empty it makes sure a frame request is outstanding;
// when it is empty any outstanding request is cancelled. Calling Activate
// again while a request is outstanding never installs a second one.
func (m *Manager) Activate(s state.Snapshot) []task.Task {
	tasks := task.SortByPriority(task.List(s, m.path))

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(tasks) == 0 {
		m.cancelLocked()
		return tasks
	}
	if !m.pending {
		m.requestLocked()
		m.logger.Debug("Frame loop activated", tag.Count(len(tasks)))
	}
	return tasks
}

// Sync re-activates the manager against a freshly committed snapshot.
func (m *Manager) Sync(s state.Snapshot) {
	m.Activate(s)
}

// Stop cancels the outstanding frame request. A frame that already fired
// but whose action has not run yet is discarded. A manager still
// subscribed to a host is re-activated by the host's next commit.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
	m.gen++
	m.logger.Debug("Frame loop stopped")
}

// Pending reports whether a frame request is outstanding.
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// Stats returns a copy of the manager's counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *Manager) requestLocked() {
	gen := m.gen
	m.handle = m.source.Request(func(now time.Duration) {
		m.dispatch(m.tick(gen, now))
	})
	m.pending = true
}

func (m *Manager) cancelLocked() {
	if !m.pending {
		return
	}
	m.source.Cancel(m.handle)
	m.pending = false
	m.gen++
}

// tick returns the action that processes one frame. The request stays
// marked pending until this action runs so that commits in between do not
// install a second request. The next request is made by the returned
// effect.
func (m *Manager) tick(gen uint64, now time.Duration) state.Action {
	return func(s state.Snapshot) (state.Snapshot, state.Effect) {
		m.mu.Lock()
		if gen != m.gen || !m.pending {
			m.mu.Unlock()
			return s, nil
		}
		m.pending = false
		m.mu.Unlock()

		next, effect, res := m.process(s, now)

		m.mu.Lock()
		m.stats.Ticks++
		m.stats.Actions += res.actions
		m.stats.Finished += res.finished
		m.mu.Unlock()

		if res.remaining == 0 {
			m.logger.Debug("Frame loop idle", tag.Frame(now))
			return next, effect
		}
		return next, state.Batch(effect, m.rearm(gen))
	}
}

// rearm requests the next frame. It runs as the last part of a tick's
// effect, after the task actions of that tick are queued, so the next
// frame's tick is always queued behind them.
func (m *Manager) rearm(gen uint64) state.Effect {
	return func(state.Dispatch) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if gen == m.gen && !m.pending {
			m.requestLocked()
		}
	}
}

type tickResult struct {
	remaining int
	actions   int
	finished  int
}

// process applies one frame at now to the task list in s.
func (m *Manager) process(s state.Snapshot, now time.Duration) (state.Snapshot, state.Effect, tickResult) {
	var (
		res     tickResult
		effects []state.Effect
	)

	tasks := task.SortByPriority(task.List(s, m.path))
	kept := make([]task.Task, 0, len(tasks))

	for _, t := range tasks {
		if !t.HasRuntime() {
			t = task.New(t)
		}
		rt := t.Runtime()

		if rt.Done() {
			continue
		}

		if paused := rt.Tick(now, t.Delay); paused {
			kept = append(kept, t)
			continue
		}

		if rt.Begun(now) && t.Action != nil {
			effects = append(effects, invoke(t, t.Action))
			res.actions++
		}

		if t.Progress() >= 1 && rt.MarkDone() {
			if t.Finish != nil {
				effects = append(effects, invoke(t, t.Finish))
			}
			res.finished++
			m.logger.Debug("Task finished", tag.TaskID(t.ID), tag.Frame(now))
			continue
		}

		kept = append(kept, t)
	}

	res.remaining = len(kept)
	return state.Set(s, m.path, kept), state.Batch(effects...), res
}

// invoke defers fn as an action on the host loop.
func invoke(t task.Task, fn task.Func) state.Effect {
	return func(dispatch state.Dispatch) {
		dispatch(func(s state.Snapshot) (state.Snapshot, state.Effect) {
			return fn(s, t)
		})
	}
}
