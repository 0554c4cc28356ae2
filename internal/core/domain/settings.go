package domain

import (
	"net/url"
	"strings"
	"time"
)

// Defaults for settings that may be left unset.
const (
	DefaultKeyspace          = "default_keyspace"
	DefaultTable             = "notes"
	DefaultTimeoutSecs       = 30
	DefaultRequestsPerSecond = 10
	DefaultDebounceMs        = 5000
)

// DefaultExtensions lists the file extensions synced when none are configured.
var DefaultExtensions = []string{".md"}

// ConnectionSettings identifies the remote index and how to reach it.
// Two settings values are the same connection only if every field matches.
type ConnectionSettings struct {
	// Endpoint is the base URL of the database, e.g.
	// https://<id>-<region>.apps.astra.datastax.com.
	Endpoint string

	// Token authenticates every request.
	Token string

	// Keyspace groups the table; defaults to "default_keyspace".
	Keyspace string

	// Table holds the chunk records; defaults to "notes".
	Table string

	// TimeoutSecs bounds each HTTP request.
	TimeoutSecs int

	// RequestsPerSecond throttles the client.
	RequestsPerSecond int
}

// WithDefaults returns a copy with empty optional fields filled in.
func (s ConnectionSettings) WithDefaults() ConnectionSettings {
	s.Endpoint = strings.TrimRight(strings.TrimSpace(s.Endpoint), "/")
	s.Token = strings.TrimSpace(s.Token)
	if s.Keyspace == "" {
		s.Keyspace = DefaultKeyspace
	}
	if s.Table == "" {
		s.Table = DefaultTable
	}
	if s.TimeoutSecs <= 0 {
		s.TimeoutSecs = DefaultTimeoutSecs
	}
	if s.RequestsPerSecond <= 0 {
		s.RequestsPerSecond = DefaultRequestsPerSecond
	}
	return s
}

// Validate reports the first missing or malformed field as a
// *ConfigurationError.
func (s ConnectionSettings) Validate() error {
	if strings.TrimSpace(s.Endpoint) == "" {
		return &ConfigurationError{Field: "endpoint", Err: ErrMissingEndpoint}
	}
	if strings.TrimSpace(s.Token) == "" {
		return &ConfigurationError{Field: "token", Err: ErrMissingToken}
	}
	u, err := url.Parse(strings.TrimSpace(s.Endpoint))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ConfigurationError{Field: "endpoint", Err: ErrInvalidEndpoint}
	}
	return nil
}

// Equal reports whether both settings describe the same connection.
func (s ConnectionSettings) Equal(other ConnectionSettings) bool {
	return s == other
}

// Timeout returns TimeoutSecs as a duration.
func (s ConnectionSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// SyncSettings controls how vault changes are synced.
type SyncSettings struct {
	// DebounceMs is the quiet period after an edit before it is synced.
	DebounceMs int

	// Extensions lists the file extensions treated as documents.
	Extensions []string
}

// Debounce returns DebounceMs as a duration.
func (s SyncSettings) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// SearchSettings controls query defaults.
type SearchSettings struct {
	// TopK is the number of results returned when no limit is given.
	TopK int
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	Connection ConnectionSettings
	Sync       SyncSettings
	Search     SearchSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Endpoint and token have no default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Connection: ConnectionSettings{}.WithDefaults(),
		Sync: SyncSettings{
			DebounceMs: DefaultDebounceMs,
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		Search: SearchSettings{
			TopK: DefaultTopK,
		},
	}
}
