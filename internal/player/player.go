// Package player plays a timeline: it wires a host loop, a frame source
// and a frame manager together, starts the timeline's animations and
// carousels, applies its controls on schedule and stops once nothing is
// left to animate.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/framekit/framekit/internal/cmn/logger"
	"github.com/framekit/framekit/internal/cmn/logger/tag"
	"github.com/framekit/framekit/internal/core/task"
	"github.com/framekit/framekit/internal/effect"
	"github.com/framekit/framekit/internal/frame"
	"github.com/framekit/framekit/internal/host"
	"github.com/framekit/framekit/internal/timeline"
)

// DefaultPath is where the player keeps the task list in host state.
var DefaultPath = []string{"animation", "tasks"}

// idleFrames is how many consecutive quiet frames end playback. It covers
// completion callbacks deferred by up to two frames.
const idleFrames = 3

// Options configures playback.
type Options struct {
	FPS int
	// Simulate drives frames from a deterministic clock as fast as possible.
	Simulate    bool
	MaxDuration time.Duration
	Path        []string
}

// Result summarises a playback.
type Result struct {
	// Elapsed is the frame time between the first and the last frame.
	Elapsed  time.Duration
	Frames   int
	Controls int
	Stats    frame.Stats
	Cycles   map[string]int
	// TimedOut is set when MaxDuration ended playback.
	TimedOut bool
}

// Player plays one timeline once.
type Player struct {
	tl     *timeline.Timeline
	opts   Options
	logger logger.Logger

	loop      *host.Loop
	mgr       *frame.Manager
	env       effect.Env
	carousels map[string]*effect.Carousel

	mu       sync.Mutex
	started  bool
	origin   time.Duration
	last     time.Duration
	frames   int
	next     int
	quiet    int
	done     chan struct{}
	doneOnce sync.Once
}

// New returns a player for tl.
func New(ctx context.Context, tl *timeline.Timeline, opts Options) *Player {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 30 * time.Second
	}
	if len(opts.Path) == 0 {
		opts.Path = DefaultPath
	}
	return &Player{
		tl:     tl,
		opts:   opts,
		logger: logger.FromContext(ctx),
		done:   make(chan struct{}),
	}
}

// Play runs the timeline until it finishes, MaxDuration of frame time has
// passed or ctx is cancelled.
func (p *Player) Play(ctx context.Context) (Result, error) {
	interval := time.Second / time.Duration(p.opts.FPS)
	p.logger.Info("Playback started",
		tag.FPS(p.opts.FPS),
		tag.Interval(interval),
		"simulate", p.opts.Simulate,
	)

	var (
		timedOut bool
		err      error
	)
	if p.opts.Simulate {
		timedOut, err = p.simulate(ctx, interval)
	} else {
		timedOut, err = p.realtime(ctx)
	}

	p.loop.Unsubscribe(p.mgr)
	p.mgr.Stop()

	res := p.result(timedOut)
	p.logger.Info("Playback finished",
		tag.Count(res.Frames),
		tag.Duration(res.Elapsed),
		"timed-out", res.TimedOut,
	)
	return res, err
}

// simulate advances a manual source by one interval per step.
func (p *Player) simulate(ctx context.Context, interval time.Duration) (bool, error) {
	src := frame.NewManualSource()
	p.setup(ctx, src)

	for now := time.Duration(0); ; now += interval {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		src.Advance(now)
		p.loop.Drain()
		if p.finished() {
			return false, nil
		}
		if now >= p.opts.MaxDuration {
			return true, nil
		}
	}
}

// realtime runs the host loop and a ticker source on their own goroutines.
func (p *Player) realtime(ctx context.Context) (bool, error) {
	src := frame.NewTickerSource(p.opts.FPS)
	p.setup(ctx, src)

	runCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.loop.Run(runCtx)
	}()
	go func() {
		defer wg.Done()
		src.Start(runCtx)
	}()

	timer := time.NewTimer(p.opts.MaxDuration)
	defer timer.Stop()

	var (
		timedOut bool
		err      error
	)
	select {
	case <-p.done:
	case <-timer.C:
		timedOut = true
	case <-ctx.Done():
		err = ctx.Err()
	}

	src.Stop()
	cancel()
	wg.Wait()
	p.loop.Drain()
	return timedOut, err
}

// setup builds the host side and queues the start of every animation and
// carousel.
func (p *Player) setup(ctx context.Context, src frame.Source) {
	p.loop = host.New(nil)
	p.mgr = frame.NewManager(ctx, p.loop.Dispatch, src, p.opts.Path)
	p.loop.Subscribe(p.mgr)

	p.env = effect.Env{
		Resolver: p.tl.Surface,
		Frames:   src,
		Path:     p.opts.Path,
	}

	p.carousels = make(map[string]*effect.Carousel, len(p.tl.Carousels))
	for _, opts := range p.tl.Carousels {
		c := effect.NewCarousel(ctx, p.env, p.tl.Surface, opts)
		p.carousels[opts.ID] = c
		c.Start()(p.loop.Dispatch)
	}
	for _, opts := range p.tl.Animations {
		effect.StartProperties(p.env, opts)(p.loop.Dispatch)
	}

	var direct frame.Callback
	direct = func(now time.Duration) {
		if p.onFrame(now) {
			src.Request(direct)
		}
	}
	src.Request(direct)
}

// onFrame applies due controls and tracks whether playback is over. It
// returns false once the player no longer needs frames.
func (p *Player) onFrame(now time.Duration) bool {
	p.mu.Lock()
	if !p.started {
		p.started, p.origin = true, now
	}
	p.last = now
	p.frames++
	elapsed := now - p.origin

	var due []timeline.Control
	for p.next < len(p.tl.Controls) && p.tl.Controls[p.next].At <= elapsed {
		due = append(due, p.tl.Controls[p.next])
		p.next++
	}
	pending := p.next < len(p.tl.Controls)
	p.mu.Unlock()

	for _, c := range due {
		p.apply(c)
	}

	busy := pending || len(due) > 0 || p.animating()

	p.mu.Lock()
	defer p.mu.Unlock()
	if busy {
		p.quiet = 0
		return true
	}
	p.quiet++
	if p.quiet < idleFrames {
		return true
	}
	p.doneOnce.Do(func() { close(p.done) })
	return false
}

func (p *Player) apply(c timeline.Control) {
	p.logger.Info("Control applied",
		tag.Action(string(c.Action)),
		tag.TaskID(c.Target),
		tag.Duration(c.At),
	)
	if car, ok := p.carousels[c.Target]; ok && c.Action == timeline.ActionCancel {
		car.Stop()(p.loop.Dispatch)
		return
	}
	if eff := c.Effect(p.opts.Path); eff != nil {
		eff(p.loop.Dispatch)
	}
}

func (p *Player) animating() bool {
	if !p.loop.Idle() {
		return true
	}
	if len(task.List(p.loop.Snapshot(), p.opts.Path)) > 0 {
		return true
	}
	for _, c := range p.carousels {
		if c.Running() {
			return true
		}
	}
	return false
}

func (p *Player) finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *Player) result(timedOut bool) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	cycles := make(map[string]int, len(p.carousels))
	for id, c := range p.carousels {
		cycles[id] = c.Cycles()
	}

	var elapsed time.Duration
	if p.started {
		elapsed = p.last - p.origin
	}
	return Result{
		Elapsed:  elapsed,
		Frames:   p.frames,
		Controls: p.next,
		Stats:    p.mgr.Stats(),
		Cycles:   cycles,
		TimedOut: timedOut,
	}
}
