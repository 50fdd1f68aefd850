// Package state implements path-addressed access to immutable application
// snapshots and the action/effect types used to transition between them.
package state

import "maps"

// Snapshot is one level of the immutable state tree. A snapshot handed to
// an Action must never be mutated in place; use Set to derive a new one.
type Snapshot = map[string]any

// Action derives the next snapshot from the current one. A nil Effect means
// the transition has no side effects.
type Action func(s Snapshot) (Snapshot, Effect)

// Effect is a deferred side effect. It runs after the snapshot produced by
// its action has been committed and may enqueue further actions.
type Effect func(dispatch Dispatch)

// Dispatch enqueues an action on the host update loop.
type Dispatch func(a Action)

// Lookup walks path through nested snapshots and reports whether a value
// exists at its end.
func Lookup(s Snapshot, path []string) (any, bool) {
	var current any = s
	for _, key := range path {
		level, ok := current.(Snapshot)
		if !ok || level == nil {
			return nil, false
		}
		v, ok := level[key]
		if !ok {
			return nil, false
		}
		current = v
	}
	return current, true
}

// Get returns the value at path, or def when any segment is missing, an
// intermediate value is not a Snapshot, or the value is not a T.
func Get[T any](s Snapshot, path []string, def T) T {
	v, ok := Lookup(s, path)
	if !ok {
		return def
	}
	typed, ok := v.(T)
	if !ok {
		return def
	}
	return typed
}

// Set returns a new snapshot with value stored at path. Every level along
// the path is shallow-copied; everything else is shared with s. Missing or
// non-snapshot intermediate levels are replaced with empty snapshots.
func Set(s Snapshot, path []string, value any) Snapshot {
	root := maps.Clone(s)
	if root == nil {
		root = Snapshot{}
	}

	current := root
	for i, key := range path {
		if i == len(path)-1 {
			current[key] = value
			break
		}

		next, ok := current[key].(Snapshot)
		if ok && next != nil {
			next = maps.Clone(next)
		} else {
			next = Snapshot{}
		}
		current[key] = next
		current = next
	}

	return root
}

// Batch combines effects into one that runs them in order. Nil effects are
// skipped; Batch returns nil when nothing remains.
func Batch(effects ...Effect) Effect {
	var list []Effect
	for _, e := range effects {
		if e != nil {
			list = append(list, e)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return func(dispatch Dispatch) {
		for _, e := range list {
			e(dispatch)
		}
	}
}

// Pure wraps a snapshot transformation without side effects as an Action.
func Pure(fn func(s Snapshot) Snapshot) Action {
	return func(s Snapshot) (Snapshot, Effect) {
		return fn(s), nil
	}
}
