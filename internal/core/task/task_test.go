package task_test

import (
	"math"
	"testing"
	"time"

	"github.com/framekit/framekit/internal/core/state"
	"github.com/framekit/framekit/internal/core/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var path = []string{"anim", "tasks"}

func ids(tasks []task.Task) []string {
	var out []string
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestPutAssignsRuntime(t *testing.T) {
	t.Parallel()

	s := task.Put(state.Snapshot{}, path, task.Task{ID: "a"})
	got, ok := task.Find(s, path, "a")
	require.True(t, ok)
	assert.True(t, got.HasRuntime())
}

func TestPutReplacesSameID(t *testing.T) {
	t.Parallel()

	s := task.Put(state.Snapshot{}, path, task.Task{ID: "a", Duration: time.Second})
	s = task.Put(s, path, task.Task{ID: "b"})
	s = task.Put(s, path, task.Task{ID: "a", Duration: 2 * time.Second})

	list := task.List(s, path)
	assert.Equal(t, []string{"b", "a"}, ids(list))

	got, ok := task.Find(s, path, "a")
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, got.Duration)
}

func TestPutDoesNotMutatePreviousList(t *testing.T) {
	t.Parallel()

	s1 := task.Put(state.Snapshot{}, path, task.Task{ID: "a"})
	s2 := task.Put(s1, path, task.Task{ID: "b"})

	assert.Equal(t, []string{"a"}, ids(task.List(s1, path)))
	assert.Equal(t, []string{"a", "b"}, ids(task.List(s2, path)))
}

func TestRuntimeSharedAcrossCopies(t *testing.T) {
	t.Parallel()

	s := task.Put(state.Snapshot{}, path, task.New(task.Task{ID: "a"}))
	first, _ := task.Find(s, path, "a")

	s = task.Put(s, path, task.Task{ID: "b"})
	second, _ := task.Find(s, path, "a")

	assert.Same(t, first.Runtime(), second.Runtime())
}

func TestRemove(t *testing.T) {
	t.Parallel()

	s := task.Put(state.Snapshot{}, path, task.Task{ID: "a"})
	s = task.Put(s, path, task.Task{ID: "b"})

	removed := task.Remove(s, path, "a")
	assert.Equal(t, []string{"b"}, ids(task.List(removed, path)))
	assert.Equal(t, []string{"a", "b"}, ids(task.List(s, path)))

	unchanged := task.Remove(s, path, "missing")
	assert.Equal(t, []string{"a", "b"}, ids(task.List(unchanged, path)))
}

func TestFindMissing(t *testing.T) {
	t.Parallel()

	_, ok := task.Find(state.Snapshot{}, path, "a")
	assert.False(t, ok)
}

func TestSortByPriorityIsStable(t *testing.T) {
	t.Parallel()

	in := []task.Task{
		{ID: "low1", Priority: 0},
		{ID: "high", Priority: 10},
		{ID: "low2", Priority: 0},
		{ID: "mid", Priority: 5},
		{ID: "low3"},
	}
	out := task.SortByPriority(in)

	assert.Equal(t, []string{"high", "mid", "low1", "low2", "low3"}, ids(out))
	assert.Equal(t, "low1", in[0].ID, "input must not be reordered")
}

func TestSortByPriorityExtremes(t *testing.T) {
	t.Parallel()

	in := []task.Task{
		{ID: "min", Priority: math.MinInt},
		{ID: "one", Priority: 1},
		{ID: "max", Priority: math.MaxInt},
		{ID: "minus", Priority: -1},
	}
	assert.Equal(t, []string{"max", "one", "minus", "min"}, ids(task.SortByPriority(in)))
}

func TestTaskAccessorsWithoutRuntime(t *testing.T) {
	t.Parallel()

	var tk task.Task
	assert.Zero(t, tk.Progress())
	assert.Zero(t, tk.DeltaTime())
	assert.False(t, tk.Done())
	assert.False(t, tk.Paused())
}
