package astra

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"

	// DefaultRetryAfter is used when a 429 carries no usable Retry-After.
	DefaultRetryAfter = time.Second

	// MaxRetryAfter caps how long a single 429 can pause the client.
	MaxRetryAfter = time.Minute
)

// RateLimiter combines a proactive token bucket with the reactive pause
// requested by 429 responses.
type RateLimiter struct {
	bucket *rate.Limiter
	now    func() time.Time

	mu         sync.Mutex
	retryUntil time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond requests with
// a burst of the same size. A non-positive rate disables the bucket.
func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = requestsPerSecond
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, burst),
		now:    time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	// 1. Honour any pause requested by the server
	r.mu.Lock()
	pause := r.retryUntil.Sub(r.now())
	r.mu.Unlock()

	if pause > 0 {
		timer := time.NewTimer(pause)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	// 2. Proactive throttling
	return r.bucket.Wait(ctx)
}

// CheckResponse returns a *RateLimitError for a 429 response and pauses
// later requests until the Retry-After delay has passed.
func (r *RateLimiter) CheckResponse(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	delay := parseRetryAfter(resp.Header.Get(HeaderRetryAfter), r.now())

	r.mu.Lock()
	if until := r.now().Add(delay); until.After(r.retryUntil) {
		r.retryUntil = until
	}
	r.mu.Unlock()

	return &RateLimitError{RetryAfter: delay}
}

// RetryUntil returns the time before which requests are paused.
func (r *RateLimiter) RetryUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryUntil
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	var delay time.Duration
	if value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			delay = time.Duration(seconds) * time.Second
		} else if at, err := http.ParseTime(value); err == nil {
			delay = at.Sub(now)
		}
	}

	if delay <= 0 {
		return DefaultRetryAfter
	}
	if delay > MaxRetryAfter {
		return MaxRetryAfter
	}
	return delay
}
