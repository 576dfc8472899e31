// Package throttle provides composable client-side rate limiters.
//
// A Throttler can tell how long a caller should wait before its next request
// (Check), record that a request was just made (Touch), and forget its
// history (Reset). Wait blocks for the Check duration and then touches.
//
// Throttlers compose into groups: AllOf waits until every member is ready,
// AnyOf waits only for the soonest member. Both constructors flatten nested
// groups of the same kind, so AllOf(AllOf(a, b), c) costs the same per Check
// as AllOf(a, b, c). Touch and Reset propagate to every member of a group,
// including members that did not determine the wait; the members share a
// cooldown. See the package tests for a demonstration of that policy.
package throttle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttler is a composable rate-limiting policy.
type Throttler interface {
	// Check returns how long the caller should wait before the next
	// request. It never returns a negative duration and does not change
	// the throttler's state.
	Check() time.Duration

	// Touch records that a request was just made.
	Touch()

	// Reset clears the throttler's history, as if freshly constructed.
	Reset()

	// Wait blocks for the Check duration, honoring context cancellation,
	// and then touches the throttler. It returns the context's error if
	// the wait was interrupted.
	Wait(ctx context.Context) error
}

// waitAndTouch implements the shared Wait contract: sleep for Check, then
// Touch. A canceled context interrupts the sleep and skips the touch.
func waitAndTouch(ctx context.Context, t Throttler) error {
	if d := t.Check(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	t.Touch()
	return nil
}

// Interval enforces a minimum gap between consecutive requests, regardless
// of any other state or statistics. The first Check after construction or
// Reset always reports a zero wait.
type Interval struct {
	mu   sync.Mutex
	gap  time.Duration
	last time.Time
}

// NewInterval returns a throttler that keeps at least gap between requests.
func NewInterval(gap time.Duration) *Interval {
	return &Interval{gap: gap}
}

// NewRate returns a throttler that allows at most requestsPerSecond
// requests per second, evenly spaced.
func NewRate(requestsPerSecond float64) *Interval {
	if requestsPerSecond <= 0 {
		return &Interval{}
	}
	return &Interval{gap: time.Duration(float64(time.Second) / requestsPerSecond)}
}

// Check implements Throttler.
func (i *Interval) Check() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.last.IsZero() {
		return 0
	}
	remaining := i.gap - time.Since(i.last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Touch implements Throttler.
func (i *Interval) Touch() {
	i.mu.Lock()
	i.last = time.Now()
	i.mu.Unlock()
}

// Reset implements Throttler.
func (i *Interval) Reset() {
	i.mu.Lock()
	i.last = time.Time{}
	i.mu.Unlock()
}

// Wait implements Throttler.
func (i *Interval) Wait(ctx context.Context) error {
	return waitAndTouch(ctx, i)
}

type groupMode int

const (
	allReady groupMode = iota
	anyReady
)

// group combines member throttlers. The mode decides whether Check reports
// the latest (all members ready) or the soonest (any member ready) wait.
type group struct {
	mode    groupMode
	members []Throttler
}

// AllOf returns a throttler that is ready only when every member is ready:
// its Check reports the maximum wait across members. Touch and Reset
// propagate to all members. Nested AllOf groups are flattened.
func AllOf(members ...Throttler) Throttler {
	return newGroup(allReady, members)
}

// AnyOf returns a throttler that is ready as soon as any member is ready:
// its Check reports the minimum wait across members. Touch and Reset
// propagate to all members. Nested AnyOf groups are flattened.
func AnyOf(members ...Throttler) Throttler {
	return newGroup(anyReady, members)
}

func newGroup(mode groupMode, members []Throttler) *group {
	flat := make([]Throttler, 0, len(members))
	for _, m := range members {
		if g, ok := m.(*group); ok && g.mode == mode {
			flat = append(flat, g.members...)
			continue
		}
		flat = append(flat, m)
	}
	return &group{mode: mode, members: flat}
}

// Check implements Throttler.
func (g *group) Check() time.Duration {
	if len(g.members) == 0 {
		return 0
	}

	result := g.members[0].Check()
	for _, m := range g.members[1:] {
		d := m.Check()
		if (g.mode == allReady && d > result) || (g.mode == anyReady && d < result) {
			result = d
		}
	}
	return result
}

// Touch implements Throttler. Every member is touched, not only the one
// that determined the last wait.
func (g *group) Touch() {
	for _, m := range g.members {
		m.Touch()
	}
}

// Reset implements Throttler. Every member is reset.
func (g *group) Reset() {
	for _, m := range g.members {
		m.Reset()
	}
}

// Wait implements Throttler.
func (g *group) Wait(ctx context.Context) error {
	return waitAndTouch(ctx, g)
}

// Limiter adapts a token-bucket rate.Limiter to the Throttler contract, so
// burst-tolerant limiting can be composed with interval throttlers via
// AllOf and AnyOf.
type Limiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	limiter *rate.Limiter
}

// NewLimiter returns a throttler backed by a token bucket with the given
// steady-state limit and burst size.
func NewLimiter(limit rate.Limit, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limit: limit, burst: burst, limiter: rate.NewLimiter(limit, burst)}
}

// Check implements Throttler. It peeks at the bucket without consuming a
// token by reserving and immediately canceling.
func (l *Limiter) Check() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	r := l.limiter.ReserveN(now, 1)
	if !r.OK() {
		return rate.InfDuration
	}
	d := r.DelayFrom(now)
	r.CancelAt(now)
	return d
}

// Touch implements Throttler by consuming one token.
func (l *Limiter) Touch() {
	l.mu.Lock()
	l.limiter.ReserveN(time.Now(), 1)
	l.mu.Unlock()
}

// Reset implements Throttler by swapping in a fresh bucket.
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.limiter = rate.NewLimiter(l.limit, l.burst)
	l.mu.Unlock()
}

// Wait implements Throttler.
func (l *Limiter) Wait(ctx context.Context) error {
	return waitAndTouch(ctx, l)
}
