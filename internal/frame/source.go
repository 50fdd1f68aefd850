// Package frame drives frame-scheduled tasks from a single periodic frame
// callback.
package frame

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Callback receives the frame timestamp, measured from the source's origin.
type Callback func(now time.Duration)

// Handle identifies an outstanding frame request.
type Handle uint64

// Source is the host's "run this once on the next frame" primitive.
type Source interface {
	// Request schedules cb to run once on the next frame.
	Request(cb Callback) Handle
	// Cancel withdraws a request. Cancelling a fired or unknown handle is
	// a no-op.
	Cancel(h Handle)
}

// Clock is a function that returns the current time.
// It can be replaced for testing purposes.
type Clock func() time.Time

// requests holds pending callbacks in request order.
type requests struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]Callback
	order   []Handle
}

func (r *requests) add(cb Callback) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		r.pending = make(map[Handle]Callback)
	}
	r.next++
	r.pending[r.next] = cb
	r.order = append(r.order, r.next)
	return r.next
}

func (r *requests) remove(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, h)
}

// take returns every callback requested so far and clears them. Requests
// made while the returned callbacks run belong to the next frame.
func (r *requests) take() []Callback {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cbs []Callback
	for _, h := range r.order {
		if cb, ok := r.pending[h]; ok {
			cbs = append(cbs, cb)
		}
	}
	r.pending = make(map[Handle]Callback)
	r.order = nil
	return cbs
}

func (r *requests) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// ManualSource fires frames only when Advance is called. It makes frame
// timing fully deterministic.
type ManualSource struct {
	reqs requests
}

var _ Source = (*ManualSource)(nil)

// NewManualSource returns an idle manual source.
func NewManualSource() *ManualSource {
	return &ManualSource{}
}

// Request implements Source.
func (s *ManualSource) Request(cb Callback) Handle {
	return s.reqs.add(cb)
}

// Cancel implements Source.
func (s *ManualSource) Cancel(h Handle) {
	s.reqs.remove(h)
}

// Pending returns the number of outstanding requests.
func (s *ManualSource) Pending() int {
	return s.reqs.len()
}

// Advance fires every outstanding request with now and returns how many
// callbacks ran.
func (s *ManualSource) Advance(now time.Duration) int {
	cbs := s.reqs.take()
	for _, cb := range cbs {
		cb(now)
	}
	return len(cbs)
}

// TickerSource fires frames from a time.Ticker at a fixed rate.
type TickerSource struct {
	reqs     requests
	interval time.Duration
	clock    Clock
	origin   time.Time
	quit     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

var _ Source = (*TickerSource)(nil)

// TickerOption configures a TickerSource.
type TickerOption func(*TickerSource)

// WithClock replaces the wall clock used to compute frame timestamps.
func WithClock(clock Clock) TickerOption {
	return func(s *TickerSource) {
		s.clock = clock
	}
}

// NewTickerSource returns a source firing fps frames per second. A
// non-positive fps falls back to 60.
func NewTickerSource(fps int, opts ...TickerOption) *TickerSource {
	if fps <= 0 {
		fps = 60
	}
	s := &TickerSource{
		interval: time.Second / time.Duration(fps),
		clock:    time.Now,
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.origin = s.clock()
	return s
}

// Interval returns the time between frames.
func (s *TickerSource) Interval() time.Duration {
	return s.interval
}

// Request implements Source.
func (s *TickerSource) Request(cb Callback) Handle {
	return s.reqs.add(cb)
}

// Cancel implements Source.
func (s *TickerSource) Cancel(h Handle) {
	s.reqs.remove(h)
}

// Start runs the frame loop until ctx is done or Stop is called.
func (s *TickerSource) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.running.Store(true)
	defer s.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case <-ticker.C:
			now := s.clock().Sub(s.origin)
			for _, cb := range s.reqs.take() {
				cb(now)
			}
		}
	}
}

// IsRunning reports whether the frame loop is active.
func (s *TickerSource) IsRunning() bool {
	return s.running.Load()
}

// Stop terminates the frame loop. Outstanding requests never fire.
func (s *TickerSource) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		_ = s.reqs.take()
	})
}
