package core

// limiter.go bounds how many uploads are parsed and merged at once.
//
// Parsing holds both files in memory, so the limiter caps peak memory under
// concurrent uploads. Requests wait up to maxWait for a slot before failing
// with ErrTooManyUploads. WaitForDrain lets shutdown finish in-flight work.

import (
	"context"
	"errors"
	"time"
)

// ErrTooManyUploads is returned when no slot frees up within the wait time.
var ErrTooManyUploads = errors.New("too many uploads in progress, please try again later")

// Defaults used when the caller passes zero values.
const (
	DefaultMaxConcurrentRuns = 4
	DefaultMaxWaitTime       = 10 * time.Second
)

// Limiter is a counting semaphore for pipeline runs.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration
}

// NewLimiter allows at most maxConcurrent runs at once.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRuns
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to the limiter's wait time.
// The caller must Release a slot it acquired.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyUploads
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	<-l.slots
}

// InFlight returns the number of held slots.
func (l *Limiter) InFlight() int {
	return len(l.slots)
}

// Capacity returns the slot count.
func (l *Limiter) Capacity() int {
	return cap(l.slots)
}

// WaitForDrain blocks until every slot is released or ctx is done.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.InFlight() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
