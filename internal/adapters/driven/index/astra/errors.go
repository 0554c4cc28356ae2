package astra

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// ErrClosed indicates the client was used after Close.
var ErrClosed = fmt.Errorf("astra: client closed: %w", domain.ErrNotConnected)

// APIError represents a failed Data API command. It is returned for a
// non-2xx status or a response whose errors array is not empty.
type APIError struct {
	StatusCode int
	Command    string
	Messages   []string
}

func (e *APIError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("astra: %s failed (%d): %s", e.Command, e.StatusCode, msg)
}

// RateLimitError reports that the API rejected a request with HTTP 429
// and retries were exhausted.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("astra: rate limit exceeded, retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return domain.ErrRateLimited }

// IsUnauthorized checks if the error indicates a rejected token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsNotFound checks if the error indicates a missing keyspace or table.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}
