package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

func TestRuntimeProgress(t *testing.T) {
	t.Parallel()

	r := NewRuntime()
	d := 1000 * ms

	assert.Zero(t, r.Progress(d), "no frame observed yet")

	r.Tick(0, 0)
	assert.Equal(t, 0.0, r.Progress(d))

	r.Tick(500*ms, 0)
	assert.InDelta(t, 0.5, r.Progress(d), 1e-9)
	assert.Equal(t, 500*ms, r.DeltaTime())

	r.Tick(1500*ms, 0)
	assert.Equal(t, 1.0, r.Progress(d), "progress is clamped")
}

func TestRuntimeDelay(t *testing.T) {
	t.Parallel()

	r := NewRuntime()
	r.Tick(100*ms, 200*ms)

	start, ok := r.StartTime()
	require.True(t, ok)
	assert.Equal(t, 300*ms, start)
	assert.False(t, r.Begun(100*ms))
	assert.Zero(t, r.Progress(time.Second), "negative elapsed time clamps to zero")

	r.Tick(300*ms, 200*ms)
	assert.True(t, r.Begun(300*ms))
	assert.Zero(t, r.Progress(time.Second))
}

func TestRuntimePauseResume(t *testing.T) {
	t.Parallel()

	r := NewRuntime()
	d := 1000 * ms

	r.Tick(0, 0)
	r.Tick(300*ms, 0)
	require.InDelta(t, 0.3, r.Progress(d), 1e-9)

	r.Pause()
	assert.True(t, r.Tick(500*ms, 0))
	assert.Zero(t, r.DeltaTime())
	assert.InDelta(t, 0.3, r.Progress(d), 1e-9)

	pausedAt, ok := r.PausedTime()
	require.True(t, ok)
	assert.Equal(t, 500*ms, pausedAt)

	assert.True(t, r.Tick(700*ms, 0))
	pausedAt, _ = r.PausedTime()
	assert.Equal(t, 500*ms, pausedAt, "pause mark is set once")
	assert.InDelta(t, 0.3, r.Progress(d), 1e-9)

	r.Resume()
	assert.False(t, r.Tick(1100*ms, 0))
	assert.InDelta(t, 0.5, r.Progress(d), 1e-9)

	start, _ := r.StartTime()
	assert.Equal(t, 600*ms, start)
	_, ok = r.PausedTime()
	assert.False(t, ok)
}

func TestRuntimeResumeBeforeNextTickIsNoop(t *testing.T) {
	t.Parallel()

	r := NewRuntime()
	r.Tick(0, 0)
	r.Pause()
	r.Resume()
	r.Tick(400*ms, 0)

	assert.InDelta(t, 0.4, r.Progress(time.Second), 1e-9)
}

func TestRuntimeZeroDuration(t *testing.T) {
	t.Parallel()

	r := NewRuntime()
	r.Tick(0, 0)
	assert.Zero(t, r.Progress(0))

	r.Tick(16*ms, 0)
	assert.Equal(t, 1.0, r.Progress(0))
	assert.Equal(t, 1.0, r.Progress(-5*ms))
}

func TestRuntimeMarkDoneIsMonotonic(t *testing.T) {
	t.Parallel()

	r := NewRuntime()
	assert.True(t, r.MarkDone())
	assert.False(t, r.MarkDone())
	assert.True(t, r.Done())
}
