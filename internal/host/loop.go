// Package host implements the update loop that owns the application state:
// it applies dispatched actions one at a time, runs their effects and
// notifies subscribers after every commit.
package host

import (
	"context"
	"slices"
	"sync"

	"github.com/framekit/framekit/internal/core/state"
)

// Subscriber is notified with every committed snapshot.
type Subscriber interface {
	Sync(s state.Snapshot)
}

// Loop is a serial update loop over an immutable snapshot.
//
// Dispatch is safe to call from any goroutine. Actions, effects and
// subscriber notifications all run on whichever goroutine drains the loop.
type Loop struct {
	mu     sync.Mutex
	queue  []state.Action
	signal chan struct{}

	snapMu   sync.RWMutex
	snapshot state.Snapshot

	drainMu     sync.Mutex
	subscribers []Subscriber
	commits     int
}

// New returns a loop holding init as its current snapshot.
func New(init state.Snapshot) *Loop {
	if init == nil {
		init = state.Snapshot{}
	}
	return &Loop{
		snapshot: init,
		signal:   make(chan struct{}, 1),
	}
}

// Subscribe registers sub and immediately syncs it with the current
// snapshot. It must not be called from an action or effect.
func (l *Loop) Subscribe(sub Subscriber) {
	l.drainMu.Lock()
	l.subscribers = append(l.subscribers, sub)
	l.drainMu.Unlock()
	sub.Sync(l.Snapshot())
}

// Unsubscribe stops notifying sub. It must not be called from an action or
// effect.
func (l *Loop) Unsubscribe(sub Subscriber) {
	l.drainMu.Lock()
	defer l.drainMu.Unlock()
	l.subscribers = slices.DeleteFunc(l.subscribers, func(s Subscriber) bool {
		return s == sub
	})
}

// Dispatch enqueues a for the next drain.
func (l *Loop) Dispatch(a state.Action) {
	if a == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, a)
	l.mu.Unlock()

	select {
	case l.signal <- struct{}{}:
	default:
	}
}

// Run drains the queue whenever actions arrive until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.signal:
			l.Drain()
		}
	}
}

// Drain applies queued actions in FIFO order, including actions enqueued
// by effects while draining, and returns how many were applied.
func (l *Loop) Drain() int {
	l.drainMu.Lock()
	defer l.drainMu.Unlock()

	applied := 0
	for {
		a, ok := l.pop()
		if !ok {
			return applied
		}
		l.apply(a)
		applied++
	}
}

func (l *Loop) pop() (state.Action, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	a := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return a, true
}

func (l *Loop) apply(a state.Action) {
	next, effect := a(l.Snapshot())
	if next == nil {
		next = state.Snapshot{}
	}

	l.snapMu.Lock()
	l.snapshot = next
	l.snapMu.Unlock()
	l.commits++

	if effect != nil {
		effect(l.Dispatch)
	}
	for _, sub := range l.subscribers {
		sub.Sync(next)
	}
}

// Snapshot returns the most recently committed snapshot.
func (l *Loop) Snapshot() state.Snapshot {
	l.snapMu.RLock()
	defer l.snapMu.RUnlock()
	return l.snapshot
}

// Idle reports whether no actions are queued.
func (l *Loop) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue) == 0
}

// Commits returns the number of applied actions. It must only be read
// while the loop is not draining.
func (l *Loop) Commits() int {
	l.drainMu.Lock()
	defer l.drainMu.Unlock()
	return l.commits
}
