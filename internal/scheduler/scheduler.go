// Package scheduler implements the liveness-token-guarded delayed task
// primitive described for the session orchestrator's stats ticks and for
// re-posting network-thread callbacks onto the worker goroutine. Every
// scheduled task carries a token bound to the owner's lifetime; once the
// token is flipped, no further task body runs, and self-rescheduling tasks
// (like the stats collector's tick) stop posting their own continuation.
package scheduler

import (
	"sync"
	"time"
)

// Token is a cancellation flag shared by every task posted on behalf of one
// owner (a Client, a Stats Collector run). Flipping it is idempotent and
// safe to call from any goroutine.
type Token struct {
	mu    sync.Mutex
	dead  bool
	timer *time.Timer
}

// NewToken returns a live token.
func NewToken() *Token {
	return &Token{}
}

// Alive reports whether the token has not yet been flipped.
func (t *Token) Alive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.dead
}

// Kill flips the token and stops the most recently registered After
// timer. An earlier timer still pending may fire, but its task body does
// not run. Safe to call more than once.
func (t *Token) Kill() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dead {
		return
	}
	t.dead = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

// Run invokes fn immediately if the token is still alive; a dead token makes
// this a silent no-op. Use for re-posted network-thread callbacks.
func (t *Token) Run(fn func()) {
	t.mu.Lock()
	dead := t.dead
	t.mu.Unlock()
	if dead {
		return
	}
	fn()
}

// After schedules fn to run after d, guarded by the token: if the token is
// killed before the timer fires, fn never runs. The latest timer reference
// is tracked so Kill can stop it outright rather than waiting for it to
// expire.
func (t *Token) After(d time.Duration, fn func()) {
	t.mu.Lock()
	if t.dead {
		t.mu.Unlock()
		return
	}
	timer := time.AfterFunc(d, func() { t.Run(fn) })
	t.timer = timer
	t.mu.Unlock()
}
