package cli

import (
	"errors"

	"github.com/custodia-labs/vecsync/internal/adapters/driven/index/astra"
	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// hintedError appends a suggested fix to an index failure.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + "\nhint: " + e.hint }

func (e *hintedError) Unwrap() error { return e.err }

// withHint attaches a hint for failures the user can fix through settings.
// Other errors are returned unchanged.
func withHint(err error) error {
	if err == nil {
		return nil
	}

	var hint string
	switch {
	case astra.IsUnauthorized(err):
		hint = `the index rejected the token; check index.token ("vecsync settings token")`
	case astra.IsNotFound(err):
		hint = "the keyspace or table was not found; check index.endpoint and index.keyspace"
	case astra.IsRateLimited(err):
		hint = "the index is rate limiting requests; lower index.requests_per_second or retry later"
	case errors.Is(err, domain.ErrMissingEndpoint), errors.Is(err, domain.ErrMissingToken):
		hint = `the index is not configured; see "vecsync settings show"`
	default:
		return err
	}
	return &hintedError{err: err, hint: hint}
}
