package ports

import "context"

// RateLimiter enforces the pause between requests to the remote service.
// Callers bracket every request with Wait and Done.
type RateLimiter interface {
	// Wait blocks until the next request may be issued or ctx is done.
	Wait(ctx context.Context) error

	// Done reports that the request has completed, whatever its outcome.
	// The pause before the next request starts here.
	Done()
}
