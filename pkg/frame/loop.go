// Package frame runs the per-refresh tick. Subscribers are called one after
// another on the loop's goroutine, so no two callbacks ever run at once.
package frame

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"fortio.org/log"
)

// MaxDelta caps the step reported after a stall, so a paused terminal
// does not make everything jump on resume.
const MaxDelta = 0.1

// Tick is the clock reading handed to every subscriber.
type Tick struct {
	Frame   uint64
	Now     time.Time
	Elapsed float64 // Sum of clamped deltas, in seconds
	Delta   float64 // Seconds since the previous tick, at most MaxDelta
}

// Func is a tick callback.
type Func func(Tick)

// Loop drives subscribers at a fixed rate.
type Loop struct {
	interval time.Duration

	mu   sync.Mutex
	subs []*Subscription

	frame   uint64
	last    time.Time
	elapsed float64
}

// New creates a loop ticking fps times per second.
func New(fps int) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{interval: time.Second / time.Duration(fps)}
}

// Interval returns the time between ticks.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Subscription is a registered callback. Close it to stop receiving
// ticks: no tick that starts after Close returns calls the callback. A tick
// already running on the loop goroutine may still finish its call.
type Subscription struct {
	loop   *Loop
	fn     Func
	closed atomic.Bool
}

// Subscribe registers fn for every following tick. Callbacks run in
// subscription order.
func (l *Loop) Subscribe(fn Func) *Subscription {
	s := &Subscription{loop: l, fn: fn}
	l.mu.Lock()
	l.subs = append(l.subs, s)
	l.mu.Unlock()
	return s
}

// Close deregisters the subscription. It is safe to call more than once
// and from any goroutine.
func (s *Subscription) Close() {
	if s.closed.Swap(true) {
		return
	}
	l := s.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, o := range l.subs {
		if o == s {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			break
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (l *Loop) Subscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// Step runs one tick at now. Run calls it from the ticker; tests and
// headless renders call it directly.
func (l *Loop) Step(now time.Time) Tick {
	delta := 0.0
	if !l.last.IsZero() {
		delta = min(max(now.Sub(l.last).Seconds(), 0), MaxDelta)
	}
	l.last = now
	l.elapsed += delta
	l.frame++
	t := Tick{Frame: l.frame, Now: now, Elapsed: l.elapsed, Delta: delta}

	l.mu.Lock()
	subs := make([]*Subscription, len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	for _, s := range subs {
		if s.closed.Load() {
			continue
		}
		s.call(t)
	}
	return t
}

// call runs the callback, logging a panic instead of taking the loop down.
func (s *Subscription) call(t Tick) {
	defer func() {
		if r := recover(); r != nil {
			log.Errf("frame %d: callback panicked: %v\n%s", t.Frame, r, debug.Stack())
		}
	}()
	s.fn(t)
}

// Run ticks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	log.Debugf("frame loop started at %v per tick", l.interval)
	l.Step(time.Now())
	for {
		select {
		case <-ctx.Done():
			if err := context.Cause(ctx); err != nil && err != context.Canceled {
				return fmt.Errorf("frame loop: %w", err)
			}
			return nil
		case now := <-ticker.C:
			l.Step(now)
		}
	}
}
