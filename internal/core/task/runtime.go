package task

import (
	"sync"
	"time"
)

// minDuration is the smallest duration used when normalizing progress, so
// that zero or negative durations complete on their first active frame.
const minDuration = time.Millisecond

// Runtime is the mutable timing record of a task. It is shared by pointer
// between every copy of a Task value so that replacing the snapshot that
// holds the task never resets its clock.
//
// Progress and DeltaTime are derived from the canonical fields on each
// call and are never stored.
type Runtime struct {
	mu sync.Mutex

	startTime time.Duration
	started   bool

	currentTime time.Duration
	prevTime    time.Duration
	ticked      bool

	pausedTime time.Duration
	pausedSet  bool

	paused bool
	done   bool
}

// NewRuntime returns a runtime that has not observed any frame yet.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Tick advances the runtime to now. On the first observed frame the start
// time is fixed at now+delay. It reports whether the task is paused, in
// which case no timing field other than the pause mark changes.
func (r *Runtime) Tick(now, delay time.Duration) (paused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		r.startTime = now + delay
		r.started = true
	}

	if r.paused {
		if !r.pausedSet {
			r.pausedTime = now
			r.pausedSet = true
		}
		return true
	}

	if r.pausedSet {
		r.startTime += now - r.pausedTime
		r.pausedSet = false
	}

	if r.ticked {
		r.prevTime = r.currentTime
	} else {
		r.prevTime = now
	}
	r.currentTime = now
	r.ticked = true

	return false
}

// Begun reports whether the task's clock has started running at now.
func (r *Runtime) Begun(now time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started && now >= r.startTime
}

// Progress returns the completed fraction of duration in [0, 1].
func (r *Runtime) Progress(duration time.Duration) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started || !r.ticked {
		return 0
	}
	d := max(minDuration, duration)
	p := float64(r.currentTime-r.startTime) / float64(d)
	return min(1, max(0, p))
}

// DeltaTime returns the time between the two most recent processed frames.
// It is zero while paused.
func (r *Runtime) DeltaTime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.paused || !r.ticked {
		return 0
	}
	return r.currentTime - r.prevTime
}

// StartTime returns the frame time at which progress starts advancing.
func (r *Runtime) StartTime() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startTime, r.started
}

// CurrentTime returns the time of the most recent processed frame.
func (r *Runtime) CurrentTime() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentTime, r.ticked
}

// PausedTime returns the frame time at which the current pause was first
// observed.
func (r *Runtime) PausedTime() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pausedTime, r.pausedSet
}

// Pause marks the task paused. Timing is reconciled on the next frame.
func (r *Runtime) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
}

// Resume clears the paused flag. The start time is shifted by the paused
// interval on the next frame, not here.
func (r *Runtime) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
}

// Paused reports whether the task is paused.
func (r *Runtime) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// MarkDone sets the terminal flag. It reports whether this call made the
// transition; once done, a runtime stays done.
func (r *Runtime) MarkDone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return false
	}
	r.done = true
	return true
}

// Done reports whether the task has finished or was cancelled.
func (r *Runtime) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}
