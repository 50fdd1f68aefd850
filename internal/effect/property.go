// Package effect builds frame-scheduled tasks that animate properties of
// render targets, and the control effects that pause, resume or cancel
// them.
package effect

import (
	"time"

	"github.com/framekit/framekit/internal/core/state"
	"github.com/framekit/framekit/internal/core/task"
	"github.com/framekit/framekit/internal/frame"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Target is a style-settable element of the render surface.
type Target interface {
	SetStyle(name, value string)
	// SetHint announces which properties are about to change. A nil or
	// empty slice clears the hint.
	SetHint(names []string)
}

// Resolver finds the targets matching a selector.
type Resolver interface {
	Resolve(selector string) []Target
}

// Interpolator returns a property value for a progress in [0, 1].
type Interpolator func(progress float64) string

// Rule animates one named property.
type Rule struct {
	Name  string
	Value Interpolator
}

// Property applies rules to every target matched by Selector.
type Property struct {
	Selector string
	Rules    []Rule
}

// Env carries the collaborators effects need from the embedding host.
type Env struct {
	Resolver Resolver
	Frames   frame.Source
	// Path is where the task list lives in the host state.
	Path []string
}

// PropertyOptions describes a property animation.
type PropertyOptions struct {
	ID       string
	GroupID  string
	Duration time.Duration
	Delay    time.Duration
	Priority int

	Properties []Property

	// OnComplete runs after the animation finished and CompleteAfterFrames
	// further frames have passed.
	OnComplete task.Func
	// CompleteAfterFrames defaults to 1. Use 2 to run OnComplete after the
	// final values went through layout.
	CompleteAfterFrames int

	Extension map[string]any
}

// PropertyExtension is stored in Task.Extension by property tasks.
type PropertyExtension struct {
	Properties []Property
	Values     map[string]any
}

// compositorProperties may be promoted to their own compositing layer.
var compositorProperties = map[string]bool{
	"transform": true,
	"opacity":   true,
}

// CreateProperties returns a task that interpolates opts.Properties over
// opts.Duration. Each action applies the values for the task's progress;
// finish clears the compositing hints and schedules OnComplete.
func CreateProperties(env Env, opts PropertyOptions) task.Task {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}

	action := func(s state.Snapshot, t task.Task) (state.Snapshot, state.Effect) {
		ext, ok := t.Extension.(*PropertyExtension)
		if !ok {
			return s, nil
		}
		progress := t.Progress()
		return s, func(state.Dispatch) {
			applyProperties(env.Resolver, ext.Properties, progress)
		}
	}

	finish := func(s state.Snapshot, t task.Task) (state.Snapshot, state.Effect) {
		clear := func(state.Dispatch) {
			clearHints(env.Resolver, opts.Properties)
		}
		if opts.OnComplete == nil {
			return s, clear
		}
		complete := func(dispatch state.Dispatch) {
			dispatch(func(s state.Snapshot) (state.Snapshot, state.Effect) {
				return opts.OnComplete(s, t)
			})
		}
		return s, state.Batch(clear, afterFrames(env.Frames, opts.CompleteAfterFrames, complete))
	}

	return task.New(task.Task{
		ID:       opts.ID,
		GroupID:  opts.GroupID,
		Duration: opts.Duration,
		Delay:    opts.Delay,
		Priority: opts.Priority,
		Action:   action,
		Finish:   finish,
		Extension: &PropertyExtension{
			Properties: opts.Properties,
			Values:     opts.Extension,
		},
	})
}

// StartProperties returns an effect that announces the compositing hints
// and stores a new property task, replacing any task with the same id.
func StartProperties(env Env, opts PropertyOptions) state.Effect {
	t := CreateProperties(env, opts)
	return func(dispatch state.Dispatch) {
		dispatch(func(s state.Snapshot) (state.Snapshot, state.Effect) {
			return task.Put(s, env.Path, t), func(state.Dispatch) {
				applyHints(env.Resolver, opts.Properties)
			}
		})
	}
}

func applyProperties(r Resolver, props []Property, progress float64) {
	if r == nil {
		return
	}
	for _, p := range props {
		for _, target := range r.Resolve(p.Selector) {
			for _, rule := range p.Rules {
				target.SetStyle(rule.Name, rule.Value(progress))
			}
		}
	}
}

func applyHints(r Resolver, props []Property) {
	if r == nil {
		return
	}
	for _, p := range props {
		names := lo.Uniq(lo.FilterMap(p.Rules, func(rule Rule, _ int) (string, bool) {
			return rule.Name, compositorProperties[rule.Name]
		}))
		if len(names) == 0 {
			continue
		}
		for _, target := range r.Resolve(p.Selector) {
			target.SetHint(names)
		}
	}
}

func clearHints(r Resolver, props []Property) {
	if r == nil {
		return
	}
	for _, p := range props {
		for _, target := range r.Resolve(p.Selector) {
			target.SetHint(nil)
		}
	}
}

// afterFrames returns an effect that runs fn once n frames have passed. A
// nil source runs fn immediately.
func afterFrames(src frame.Source, n int, fn state.Effect) state.Effect {
	if n <= 0 {
		n = 1
	}
	return func(dispatch state.Dispatch) {
		if src == nil {
			fn(dispatch)
			return
		}
		var wait func(left int)
		wait = func(left int) {
			src.Request(func(time.Duration) {
				if left <= 1 {
					fn(dispatch)
					return
				}
				wait(left - 1)
			})
		}
		wait(n)
	}
}
