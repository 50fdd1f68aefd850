package effect

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/framekit/framekit/internal/cmn/logger"
	"github.com/framekit/framekit/internal/cmn/logger/tag"
	"github.com/framekit/framekit/internal/core/state"
	"github.com/framekit/framekit/internal/core/task"
	"github.com/framekit/framekit/internal/easing"
	"github.com/framekit/framekit/internal/frame"
)

// Layout measures and reorders the children of an element.
type Layout interface {
	// ChildOffsets returns the horizontal offset of each child of the
	// element matched by selector, in document order.
	ChildOffsets(selector string) []float64
	// RotateChildren moves the first child to the end.
	RotateChildren(selector string)
}

// CarouselOptions configures a Carousel.
type CarouselOptions struct {
	ID       string
	Selector string
	// Duration of one slide.
	Duration time.Duration
	// Interval is the pause between slides, counted in frame time from the
	// first frame after a slide completed.
	Interval time.Duration
	Easing   easing.Func
	Priority int
}

// Carousel slides the children of one element to the left, one child per
// cycle, until stopped. Every cycle is a separate property task created by
// the completion of the previous one.
type Carousel struct {
	env    Env
	layout Layout
	opts   CarouselOptions
	logger logger.Logger

	mu      sync.Mutex
	running bool
	cycles  int
	// gen changes on every Stop. Completions of cycles started under an
	// older gen are ignored.
	gen     uint64
	waiting bool
	wait    frame.Handle
}

// NewCarousel returns a stopped carousel.
func NewCarousel(ctx context.Context, env Env, layout Layout, opts CarouselOptions) *Carousel {
	if opts.ID == "" {
		opts.ID = "carousel:" + opts.Selector
	}
	if opts.Easing == nil {
		opts.Easing = easing.Linear
	}
	return &Carousel{
		env:    env,
		layout: layout,
		opts:   opts,
		logger: logger.FromContext(ctx).With(tag.TaskID(opts.ID), tag.Selector(opts.Selector)),
	}
}

// ID returns the id shared by every cycle task.
func (c *Carousel) ID() string {
	return c.opts.ID
}

// Running reports whether the carousel is started.
func (c *Carousel) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Cycles returns the number of completed slides.
func (c *Carousel) Cycles() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycles
}

// Start returns an effect that starts the first cycle. It does nothing when
// the carousel is already running or the element has fewer than two
// children.
func (c *Carousel) Start() state.Effect {
	return func(dispatch state.Dispatch) {
		c.mu.Lock()
		if c.running {
			c.mu.Unlock()
			return
		}
		c.running = true
		c.mu.Unlock()

		if !c.startCycle(dispatch) {
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			c.logger.Warn("Carousel needs at least two children")
			return
		}
		c.logger.Debug("Carousel started")
	}
}

// Stop returns an effect that cancels the current cycle and any pending
// interval, and resets the element's transform.
func (c *Carousel) Stop() state.Effect {
	return func(dispatch state.Dispatch) {
		c.mu.Lock()
		if !c.running {
			c.mu.Unlock()
			return
		}
		c.running = false
		c.gen++
		if c.waiting && c.env.Frames != nil {
			c.env.Frames.Cancel(c.wait)
		}
		c.waiting = false
		c.mu.Unlock()

		Cancel(c.env.Path, c.opts.ID)(dispatch)
		c.resetTransform()
		c.logger.Debug("Carousel stopped", tag.Cycle(c.Cycles()))
	}
}

func (c *Carousel) startCycle(dispatch state.Dispatch) bool {
	offsets := c.layout.ChildOffsets(c.opts.Selector)
	if len(offsets) < 2 {
		return false
	}
	width := offsets[1] - offsets[0]
	ease := c.opts.Easing

	c.mu.Lock()
	cycle, gen := c.cycles, c.gen
	c.mu.Unlock()

	StartProperties(c.env, PropertyOptions{
		ID:       c.opts.ID,
		GroupID:  "carousel",
		Duration: c.opts.Duration,
		Priority: c.opts.Priority,
		Properties: []Property{{
			Selector: c.opts.Selector,
			Rules: []Rule{{
				Name: "transform",
				Value: func(p float64) string {
					return translateX(-ease(p) * width)
				},
			}},
		}},
		OnComplete: func(s state.Snapshot, _ task.Task) (state.Snapshot, state.Effect) {
			return s, c.complete(gen)
		},
		Extension: map[string]any{"cycle": cycle},
	})(dispatch)
	return true
}

// complete runs after a slide of generation gen finished. It moves the
// slid-out child to the end and chains the next cycle.
func (c *Carousel) complete(gen uint64) state.Effect {
	return func(dispatch state.Dispatch) {
		c.mu.Lock()
		if !c.running || c.gen != gen {
			c.mu.Unlock()
			return
		}
		c.layout.RotateChildren(c.opts.Selector)
		c.cycles++
		cycle := c.cycles
		c.mu.Unlock()

		c.resetTransform()
		c.logger.Debug("Carousel cycle completed", tag.Cycle(cycle))

		if c.opts.Interval <= 0 || c.env.Frames == nil {
			c.next(dispatch, gen)
			return
		}
		c.waitInterval(dispatch, gen)
	}
}

// waitInterval starts the next cycle once Interval of frame time has
// passed.
func (c *Carousel) waitInterval(dispatch state.Dispatch, gen uint64) {
	var (
		first   time.Duration
		started bool
		cb      frame.Callback
	)
	cb = func(now time.Duration) {
		c.mu.Lock()
		if !c.running || !c.waiting || c.gen != gen {
			c.mu.Unlock()
			return
		}
		if !started {
			first, started = now, true
		}
		if now-first < c.opts.Interval {
			c.wait = c.env.Frames.Request(cb)
			c.mu.Unlock()
			return
		}
		c.waiting = false
		c.mu.Unlock()
		c.next(dispatch, gen)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.waiting = true
	c.wait = c.env.Frames.Request(cb)
}

func (c *Carousel) next(dispatch state.Dispatch, gen uint64) {
	c.mu.Lock()
	current := c.running && c.gen == gen
	c.mu.Unlock()
	if !current {
		return
	}
	if !c.startCycle(dispatch) {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
		c.logger.Warn("Carousel stopped, fewer than two children left")
	}
}

func (c *Carousel) resetTransform() {
	if c.env.Resolver == nil {
		return
	}
	for _, target := range c.env.Resolver.Resolve(c.opts.Selector) {
		target.SetStyle("transform", translateX(0))
	}
}

func translateX(px float64) string {
	if math.Abs(px) < 0.005 {
		return "translateX(0.00px)"
	}
	return fmt.Sprintf("translateX(%.2fpx)", px)
}
