package effect_test

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/framekit/framekit/internal/core/state"
	"github.com/framekit/framekit/internal/core/task"
	"github.com/framekit/framekit/internal/effect"
	"github.com/framekit/framekit/internal/frame"
	"github.com/framekit/framekit/internal/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

var tasksPath = []string{"ui", "tasks"}

type fakeTarget struct {
	mu     sync.Mutex
	styles map[string]string
	hint   []string
	hinted int
}

func (f *fakeTarget) SetStyle(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.styles == nil {
		f.styles = map[string]string{}
	}
	f.styles[name] = value
}

func (f *fakeTarget) SetHint(names []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hint = slices.Clone(names)
	if len(names) > 0 {
		f.hinted++
	}
}

func (f *fakeTarget) style(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.styles[name]
}

func (f *fakeTarget) hints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.hint)
}

// fakeSurface resolves selectors to targets and lays out the children of
// ".track" 100px apart.
type fakeSurface struct {
	mu       sync.Mutex
	targets  map[string]*fakeTarget
	children []string
}

func newFakeSurface(children ...string) *fakeSurface {
	return &fakeSurface{
		targets: map[string]*fakeTarget{
			".box":   {},
			".track": {},
		},
		children: children,
	}
}

func (f *fakeSurface) Resolve(selector string) []effect.Target {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.targets[selector]; ok {
		return []effect.Target{t}
	}
	return nil
}

func (f *fakeSurface) ChildOffsets(string) []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	offsets := make([]float64, len(f.children))
	for i := range offsets {
		offsets[i] = float64(i) * 100
	}
	return offsets
}

func (f *fakeSurface) RotateChildren(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.children) > 1 {
		f.children = append(f.children[1:], f.children[0])
	}
}

func (f *fakeSurface) order() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.children)
}

type harness struct {
	loop *host.Loop
	src  *frame.ManualSource
	surf *fakeSurface
	env  effect.Env
}

func newHarness(t *testing.T, children ...string) *harness {
	t.Helper()
	loop := host.New(nil)
	src := frame.NewManualSource()
	mgr := frame.NewManager(context.Background(), loop.Dispatch, src, tasksPath)
	loop.Subscribe(mgr)
	surf := newFakeSurface(children...)
	return &harness{
		loop: loop,
		src:  src,
		surf: surf,
		env:  effect.Env{Resolver: surf, Frames: src, Path: tasksPath},
	}
}

func (h *harness) run(eff state.Effect) {
	eff(h.loop.Dispatch)
	h.loop.Drain()
}

func (h *harness) frame(now time.Duration) {
	h.src.Advance(now)
	h.loop.Drain()
}

func (h *harness) find(id string) (task.Task, bool) {
	return task.Find(h.loop.Snapshot(), tasksPath, id)
}

func (h *harness) target(sel string) *fakeTarget {
	return h.surf.targets[sel]
}

func fixed(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

func fadeIn(id string, d time.Duration) effect.PropertyOptions {
	return effect.PropertyOptions{
		ID:       id,
		Duration: d,
		Properties: []effect.Property{{
			Selector: ".box",
			Rules: []effect.Rule{
				{Name: "opacity", Value: fixed},
				{Name: "width", Value: fixed},
				{Name: "opacity", Value: fixed},
				{Name: "transform", Value: fixed},
			},
		}},
	}
}

func TestStartPropertiesAnimatesTargets(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	box := h.target(".box")

	completed := 0
	opts := fadeIn("fade", 1000*ms)
	opts.OnComplete = func(s state.Snapshot, _ task.Task) (state.Snapshot, state.Effect) {
		completed++
		return s, nil
	}
	h.run(effect.StartProperties(h.env, opts))

	_, ok := h.find("fade")
	require.True(t, ok)
	assert.Equal(t, []string{"opacity", "transform"}, box.hints())

	h.frame(0)
	assert.Equal(t, "0.00", box.style("opacity"))

	h.frame(500 * ms)
	assert.Equal(t, "0.50", box.style("opacity"))
	assert.Equal(t, "0.50", box.style("width"))

	h.frame(1000 * ms)
	assert.Equal(t, "1.00", box.style("opacity"))
	assert.Empty(t, box.hints(), "finish clears the hint")
	assert.Zero(t, completed, "completion waits one frame")
	assert.Equal(t, 1, h.src.Pending())

	_, ok = h.find("fade")
	assert.False(t, ok)

	h.frame(1016 * ms)
	assert.Equal(t, 1, completed)
	assert.Zero(t, h.src.Pending())
}

func TestCompleteAfterTwoFrames(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	completed := 0
	opts := fadeIn("fade", 100*ms)
	opts.CompleteAfterFrames = 2
	opts.OnComplete = func(s state.Snapshot, _ task.Task) (state.Snapshot, state.Effect) {
		completed++
		return s, nil
	}
	h.run(effect.StartProperties(h.env, opts))

	h.frame(0)
	h.frame(100 * ms)
	h.frame(116 * ms)
	assert.Zero(t, completed)
	h.frame(132 * ms)
	assert.Equal(t, 1, completed)
}

func TestPropertiesWithoutTargetsStillComplete(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	finished := false
	opts := effect.PropertyOptions{
		ID:       "ghost",
		Duration: 100 * ms,
		Properties: []effect.Property{{
			Selector: "#missing",
			Rules:    []effect.Rule{{Name: "opacity", Value: fixed}},
		}},
		OnComplete: func(s state.Snapshot, _ task.Task) (state.Snapshot, state.Effect) {
			finished = true
			return s, nil
		},
	}
	h.run(effect.StartProperties(h.env, opts))

	h.frame(0)
	h.frame(100 * ms)
	h.frame(116 * ms)
	assert.True(t, finished)
}

func TestStartPropertiesReplacesSameID(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.run(effect.StartProperties(h.env, fadeIn("fade", 1000*ms)))
	h.frame(0)
	h.frame(500 * ms)

	h.run(effect.StartProperties(h.env, fadeIn("fade", 1000*ms)))
	require.Len(t, task.List(h.loop.Snapshot(), tasksPath), 1)

	h.frame(600 * ms)
	assert.Equal(t, "0.00", h.target(".box").style("opacity"), "replacement starts from zero")
}

func TestCreatePropertiesAssignsID(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	tk := effect.CreateProperties(h.env, effect.PropertyOptions{
		Duration:  time.Second,
		Extension: map[string]any{"k": "v"},
	})
	assert.NotEmpty(t, tk.ID)
	assert.True(t, tk.HasRuntime())

	ext, ok := tk.Extension.(*effect.PropertyExtension)
	require.True(t, ok)
	assert.Equal(t, "v", ext.Values["k"])
}
