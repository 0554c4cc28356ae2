package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingEndpoint indicates the index endpoint is not configured.
	ErrMissingEndpoint = errors.New("index endpoint is not configured")

	// ErrMissingToken indicates the index token is not configured.
	ErrMissingToken = errors.New("index token is not configured")

	// ErrInvalidEndpoint indicates the endpoint is not an absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("index endpoint is not a valid URL")

	// ErrNotConnected indicates an index operation was attempted without a
	// live connection.
	ErrNotConnected = errors.New("not connected to index")

	// ErrRateLimited indicates the index API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ConfigurationError reports missing or malformed connection settings.
// No connection is attempted when it is returned.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ConnectionError reports that the index could not be reached or its schema
// could not be ensured. It stays in effect until the settings change.
type ConnectionError struct {
	Endpoint string
	Op       string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %s: %v", e.Endpoint, e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SyncError reports a failed sync or delete of one path.
type SyncError struct {
	Path string
	Op   string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %q: %s: %v", e.Path, e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// QueryError reports a failed similarity query.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
