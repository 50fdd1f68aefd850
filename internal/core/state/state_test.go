package state_test

import (
	"reflect"
	"testing"

	"github.com/framekit/framekit/internal/core/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samePointer(t *testing.T, a, b state.Snapshot) bool {
	t.Helper()
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestGet(t *testing.T) {
	t.Parallel()

	s := state.Snapshot{
		"a": state.Snapshot{
			"b": 5,
			"c": "text",
		},
		"n": nil,
		"x": 1,
	}

	tests := []struct {
		name string
		path []string
		def  any
		want any
	}{
		{name: "NestedValue", path: []string{"a", "b"}, def: 0, want: 5},
		{name: "MissingLeaf", path: []string{"a", "z"}, def: -1, want: -1},
		{name: "MissingRoot", path: []string{"z", "b"}, def: -1, want: -1},
		{name: "NonIndexable", path: []string{"x", "b"}, def: -1, want: -1},
		{name: "NilIntermediate", path: []string{"n", "b"}, def: -1, want: -1},
		{name: "WrongType", path: []string{"a", "c"}, def: 7, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			switch def := tt.def.(type) {
			case int:
				assert.Equal(t, tt.want, state.Get(s, tt.path, def))
			default:
				t.Fatalf("unexpected default type %T", def)
			}
		})
	}
}

func TestGetEmptyPathReturnsRoot(t *testing.T) {
	t.Parallel()

	s := state.Snapshot{"a": 1}
	got := state.Get[state.Snapshot](s, nil, nil)
	assert.True(t, samePointer(t, s, got))
}

func TestGetNilSnapshot(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "d", state.Get[string](nil, []string{"a"}, "d"))
}

func TestSetRoundTrip(t *testing.T) {
	t.Parallel()

	s := state.Snapshot{}
	next := state.Set(s, []string{"a", "b"}, 5)

	assert.Equal(t, 5, state.Get(next, []string{"a", "b"}, 0))
	assert.Empty(t, s, "original snapshot must not change")
}

func TestSetSharesSiblings(t *testing.T) {
	t.Parallel()

	sibling := state.Snapshot{"keep": true}
	inner := state.Snapshot{"b": 1, "c": state.Snapshot{"deep": 1}}
	s := state.Snapshot{
		"a":       inner,
		"sibling": sibling,
	}

	next := state.Set(s, []string{"a", "b"}, 5)

	require.Equal(t, 5, state.Get(next, []string{"a", "b"}, 0))
	assert.Equal(t, 1, inner["b"], "copy-on-write must leave the old level intact")

	gotSibling := state.Get[state.Snapshot](next, []string{"sibling"}, nil)
	assert.True(t, samePointer(t, sibling, gotSibling), "untouched sibling must be shared")

	gotDeep := state.Get[state.Snapshot](next, []string{"a", "c"}, nil)
	assert.True(t, samePointer(t, inner["c"].(state.Snapshot), gotDeep))

	gotInner := state.Get[state.Snapshot](next, []string{"a"}, nil)
	assert.False(t, samePointer(t, inner, gotInner), "levels on the path must be copied")
}

func TestSetCreatesIntermediates(t *testing.T) {
	t.Parallel()

	s := state.Snapshot{"a": 42}
	next := state.Set(s, []string{"a", "b", "c"}, "v")

	assert.Equal(t, "v", state.Get(next, []string{"a", "b", "c"}, ""))
	assert.Equal(t, 42, s["a"])
}

func TestSetNilSnapshot(t *testing.T) {
	t.Parallel()

	next := state.Set(nil, []string{"k"}, 1)
	assert.Equal(t, 1, state.Get(next, []string{"k"}, 0))
}

func TestSetEmptyPathCopiesRoot(t *testing.T) {
	t.Parallel()

	s := state.Snapshot{"a": 1}
	next := state.Set(s, nil, 2)

	assert.Equal(t, s, next)
	assert.False(t, samePointer(t, s, next))
}

func TestBatch(t *testing.T) {
	t.Parallel()

	assert.Nil(t, state.Batch(nil, nil))

	var order []int
	e := state.Batch(
		func(state.Dispatch) { order = append(order, 1) },
		nil,
		func(state.Dispatch) { order = append(order, 2) },
	)
	require.NotNil(t, e)
	e(func(state.Action) {})
	assert.Equal(t, []int{1, 2}, order)
}

func TestPure(t *testing.T) {
	t.Parallel()

	a := state.Pure(func(s state.Snapshot) state.Snapshot {
		return state.Set(s, []string{"k"}, "v")
	})
	next, effect := a(state.Snapshot{})
	assert.Nil(t, effect)
	assert.Equal(t, "v", state.Get(next, []string{"k"}, ""))
}
