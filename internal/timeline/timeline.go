// Package timeline loads animation timelines from YAML files and turns them
// into a render surface plus the effects that animate it.
package timeline

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/framekit/framekit/internal/cmn/logger"
	"github.com/framekit/framekit/internal/core/state"
	"github.com/framekit/framekit/internal/easing"
	"github.com/framekit/framekit/internal/effect"
	"github.com/framekit/framekit/internal/surface"
)

// DefaultFormat renders interpolated values when a rule sets no format.
const DefaultFormat = "%.2f"

// Action is what a Control does to its target.
type Action string

const (
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionToggle Action = "toggle"
	ActionCancel Action = "cancel"
)

var actions = []Action{ActionPause, ActionResume, ActionToggle, ActionCancel}

// Control acts on an animation or carousel At a point of playback time.
type Control struct {
	At     time.Duration
	Action Action
	Target string
}

// Effect returns the control as an effect on the task list at path.
// Carousel targets are handled by the player, which owns the handles.
func (c Control) Effect(path []string) state.Effect {
	switch c.Action {
	case ActionPause:
		return effect.Pause(path, c.Target)
	case ActionResume:
		return effect.Resume(path, c.Target)
	case ActionToggle:
		return effect.Toggle(path, c.Target)
	case ActionCancel:
		return effect.Cancel(path, c.Target)
	}
	return nil
}

// Timeline is a built timeline file.
type Timeline struct {
	Name       string
	Surface    *surface.Surface
	Animations []effect.PropertyOptions
	Carousels  []effect.CarouselOptions
	// Controls are ordered by At.
	Controls []Control
}

// IsCarousel reports whether id names a carousel.
func (t *Timeline) IsCarousel(id string) bool {
	return slices.ContainsFunc(t.Carousels, func(c effect.CarouselOptions) bool {
		return c.ID == id
	})
}

// build converts a decoded definition into a Timeline, collecting every
// validation error.
func build(ctx context.Context, def *definition) (*Timeline, error) {
	if def == nil || len(def.Animations)+len(def.Carousels) == 0 {
		return nil, ErrTimelineEmpty
	}

	b := &builder{
		ids: make(map[string]bool),
		tl: &Timeline{
			Name:    def.Name,
			Surface: surface.New(buildElements(def.Elements)...),
		},
	}

	for i, a := range def.Animations {
		b.animation(fmt.Sprintf("animations[%d]", i), a)
	}
	for i, c := range def.Carousels {
		b.carousel(fmt.Sprintf("carousels[%d]", i), c)
	}
	for i, c := range def.Controls {
		b.control(fmt.Sprintf("controls[%d]", i), c)
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	slices.SortStableFunc(b.tl.Controls, func(x, y Control) int {
		return cmp.Compare(x.At, y.At)
	})
	logger.Debug(ctx, "Timeline built",
		"animations", len(b.tl.Animations),
		"carousels", len(b.tl.Carousels),
		"controls", len(b.tl.Controls),
	)
	return b.tl, nil
}

type builder struct {
	tl   *Timeline
	ids  map[string]bool
	errs ErrorList
}

func (b *builder) add(field string, value any, err error) {
	b.errs = append(b.errs, wrapError(field, value, err))
}

func (b *builder) id(field, id string) string {
	if id == "" {
		v, err := uuid.NewV7()
		if err != nil {
			b.add(field+".id", nil, err)
			return ""
		}
		return v.String()
	}
	if b.ids[id] {
		b.add(field+".id", id, ErrDuplicateID)
	}
	b.ids[id] = true
	return id
}

func (b *builder) easing(field, name string) easing.Func {
	fn, ok := easing.Lookup(name)
	if !ok {
		b.add(field, name, ErrUnknownEasing)
		return easing.Linear
	}
	return fn
}

func (b *builder) selector(field, sel string) {
	if strings.TrimSpace(sel) == "" {
		b.add(field, nil, ErrSelectorRequired)
		return
	}
	els, err := b.tl.Surface.Match(sel)
	if err != nil {
		b.add(field, sel, err)
		return
	}
	if len(els) == 0 {
		b.add(field, sel, ErrUnknownSelector)
	}
}

func (b *builder) times(field string, values ...time.Duration) {
	for _, v := range values {
		if v < 0 {
			b.add(field, v, ErrNegativeTime)
			return
		}
	}
}

func (b *builder) animation(field string, a animationDef) {
	id := b.id(field, a.ID)
	b.times(field, lo.FromPtr(a.Duration), lo.FromPtr(a.Delay))
	ease := b.easing(field+".easing", a.Easing)
	if a.CompleteAfterFrames < 0 {
		b.add(field+".completeAfterFrames", a.CompleteAfterFrames, ErrNegativeFrameOffset)
	}
	if len(a.Properties) == 0 {
		b.add(field+".properties", nil, ErrPropertiesRequired)
	}

	props := make([]effect.Property, 0, len(a.Properties))
	for i, p := range a.Properties {
		pf := fmt.Sprintf("%s.properties[%d]", field, i)
		b.selector(pf+".selector", p.Selector)

		rules := make([]effect.Rule, 0, len(p.Rules))
		for j, r := range p.Rules {
			rf := fmt.Sprintf("%s.rules[%d]", pf, j)
			if r.Name == "" {
				b.add(rf+".name", nil, ErrRuleNameRequired)
			}
			format := r.Format
			if format == "" {
				format = DefaultFormat
			}
			if !validFormat(format) {
				b.add(rf+".format", format, ErrInvalidFormat)
			}
			curve := ease
			if r.Easing != "" {
				curve = b.easing(rf+".easing", r.Easing)
			}
			rules = append(rules, effect.Rule{
				Name:  r.Name,
				Value: interpolate(r.From, r.To, format, curve),
			})
		}
		props = append(props, effect.Property{Selector: p.Selector, Rules: rules})
	}

	b.tl.Animations = append(b.tl.Animations, effect.PropertyOptions{
		ID:                  id,
		GroupID:             a.Group,
		Duration:            lo.FromPtr(a.Duration),
		Delay:               lo.FromPtr(a.Delay),
		Priority:            lo.FromPtr(a.Priority),
		Properties:          props,
		CompleteAfterFrames: a.CompleteAfterFrames,
	})
}

func (b *builder) carousel(field string, c carouselDef) {
	id := b.id(field, c.ID)
	b.times(field, lo.FromPtr(c.Duration), c.Interval)
	b.selector(field+".selector", c.Selector)
	b.tl.Carousels = append(b.tl.Carousels, effect.CarouselOptions{
		ID:       id,
		Selector: c.Selector,
		Duration: lo.FromPtr(c.Duration),
		Interval: c.Interval,
		Easing:   b.easing(field+".easing", c.Easing),
		Priority: lo.FromPtr(c.Priority),
	})
}

func (b *builder) control(field string, c controlDef) {
	b.times(field+".at", c.At)
	action := Action(strings.ToLower(c.Action))
	if !slices.Contains(actions, action) {
		b.add(field+".action", c.Action, ErrUnknownAction)
	}
	if !b.ids[c.Target] {
		b.add(field+".target", c.Target, ErrUnknownTarget)
	}
	b.tl.Controls = append(b.tl.Controls, Control{At: c.At, Action: action, Target: c.Target})
}

func buildElements(defs []elementDef) []surface.Spec {
	specs := make([]surface.Spec, len(defs))
	for i, d := range defs {
		specs[i] = surface.Spec{
			Name:     d.Name,
			ID:       d.ID,
			Classes:  d.Classes,
			Width:    d.Width,
			Children: buildElements(d.Children),
		}
	}
	return specs
}

func interpolate(from, to float64, format string, ease easing.Func) effect.Interpolator {
	return func(p float64) string {
		return fmt.Sprintf(format, from+(to-from)*ease(p))
	}
}

func validFormat(format string) bool {
	out := fmt.Sprintf(format, 1.5)
	return !strings.Contains(out, "%!")
}
