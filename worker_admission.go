package libnioev

import (
	"sync"

	"golang.org/x/time/rate"
)

// WithRateLimitedAdmission returns an Admit hook backed by a token
// bucket: tasks are admitted as long as a token is immediately
// available, and rejected (not blocked) otherwise. Callers that want
// admission to wait for a token should not use this — Enqueue must
// stay non-blocking for the queue lock it runs under.
func WithRateLimitedAdmission[T any](limiter *rate.Limiter) func(task T) bool {
	return func(_ T) bool {
		return limiter.Allow()
	}
}

// boundedAdmission tracks an in-flight task count against a ceiling,
// generalizing a per-session QoS quota into a plain admission gate
// any Runtime can use.
type boundedAdmission struct {
	mu       sync.Mutex
	max      int
	inFlight int
}

// WithBoundedAdmission returns an Admit hook that rejects once
// `max` tasks are in flight, plus a release func the handler must
// call exactly once per admitted task (typically from Handle, or
// deferred around it) to free a slot.
func WithBoundedAdmission[T any](max int) (admit func(task T) bool, release func()) {
	b := &boundedAdmission{max: max}

	admit = func(_ T) bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.inFlight >= b.max {
			return false
		}
		b.inFlight++
		return true
	}

	release = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.inFlight > 0 {
			b.inFlight--
		}
	}

	return admit, release
}
