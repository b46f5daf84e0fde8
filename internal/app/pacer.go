package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default pacing configuration values.
const (
	DefaultRequestInterval = 500 * time.Millisecond
)

// Clock abstracts wall-clock time so pacing can be tested without real delays.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

// SystemClock returns a Clock backed by the real wall clock.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Pacer is a minimum-interval gate shared by every request to the remote service.
// The first request passes immediately. Each following one waits until at least
// interval has elapsed since the previous request completed, as reported by
// Done, so slow responses never shorten the pause between requests.
type Pacer struct {
	interval time.Duration
	limit    rate.Limit
	clock    Clock

	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewPacer creates a pacer with the given minimum interval.
// A non-positive interval disables pacing. A nil clock uses the system clock.
func NewPacer(interval time.Duration, clock Clock) *Pacer {
	if clock == nil {
		clock = SystemClock()
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{
		interval: interval,
		limit:    limit,
		clock:    clock,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the next request may be issued.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	limiter := p.limiter
	p.mu.Unlock()

	now := p.clock.Now()
	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return fmt.Errorf("pacer: reservation exceeds burst")
	}

	delay := r.DelayFrom(now)
	if delay <= 0 {
		return nil
	}
	if err := p.clock.Sleep(ctx, delay); err != nil {
		r.CancelAt(p.clock.Now())
		return err
	}
	return nil
}

// Done marks the end of a request, successful or not. The next Wait is
// measured from this moment instead of from when the request was let through.
func (p *Pacer) Done() {
	now := p.clock.Now()
	limiter := rate.NewLimiter(p.limit, 1)
	// spend the single token now so the bucket refills one interval later
	limiter.ReserveN(now, 1)

	p.mu.Lock()
	p.limiter = limiter
	p.mu.Unlock()
}

// Interval returns the configured minimum spacing.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
