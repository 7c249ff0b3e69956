package core

// fetch_limiter.go bounds concurrent requests to the sheet source.
//
// Reference resolution fans out: one sheet may link to many others, and each
// of those to more. The limiter is a semaphore held only for the duration of
// a fetch, never across recursion, so nested resolution cannot deadlock on it.
// When all slots are busy a fetch waits up to maxWait before failing with
// ErrTooManyFetches.

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxConcurrentFetches is the default limit for parallel fetches.
const DefaultMaxConcurrentFetches = 8

// DefaultMaxFetchWait is how long to wait for a slot before rejecting.
const DefaultMaxFetchWait = 30 * time.Second

// FetchLimiter controls concurrent fetch processing using a semaphore pattern.
type FetchLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewFetchLimiter creates a limiter that allows at most maxConcurrent simultaneous fetches.
func NewFetchLimiter(maxConcurrent int, maxWait time.Duration) *FetchLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentFetches
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxFetchWait
	}

	return &FetchLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a fetch slot.
// Returns nil on success, ErrTooManyFetches if the wait times out, or the
// context error if ctx ends first. Callers must Release after a nil return.
func (l *FetchLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyFetches
	}
}

// Release releases a previously acquired slot.
func (l *FetchLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of fetches in flight.
func (l *FetchLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// FetchLimiterStatus is a snapshot of the limiter's state.
type FetchLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *FetchLimiter) Status() FetchLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return FetchLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}

// WaitForDrain blocks until no fetch is in flight or ctx ends.
func (l *FetchLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
