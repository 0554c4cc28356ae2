package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interfaces.
var (
	_ driving.SettingsService = (*SettingsService)(nil)
	_ SettingsProvider        = (*SettingsService)(nil)
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEndpoint          = "index.endpoint"
	KeyToken             = "index.token"
	KeyKeyspace          = "index.keyspace"
	KeyTable             = "index.table"
	KeyTimeoutSecs       = "index.timeout_secs"
	KeyRequestsPerSecond = "index.requests_per_second"
	KeyDebounceMs        = "sync.debounce_ms"
	KeyExtensions        = "sync.extensions"
	KeyTopK              = "search.top_k"
)

// Environment variables that override stored connection settings.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvEndpoint = "VECSYNC_ENDPOINT"
	EnvToken    = "VECSYNC_TOKEN"
	EnvKeyspace = "VECSYNC_KEYSPACE"
	EnvTable    = "VECSYNC_TABLE"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindList
)

var settingKinds = map[string]settingKind{
	KeyEndpoint:          kindString,
	KeyToken:             kindString,
	KeyKeyspace:          kindString,
	KeyTable:             kindString,
	KeyTimeoutSecs:       kindInt,
	KeyRequestsPerSecond: kindInt,
	KeyDebounceMs:        kindInt,
	KeyExtensions:        kindList,
	KeyTopK:              kindInt,
}

// SettingsService reads and writes settings through a ConfigStore.
// Environment variables take precedence over stored values.
type SettingsService struct {
	store     driven.ConfigStore
	lookupEnv func(string) (string, bool)
}

// SettingsOption configures the settings service.
type SettingsOption func(*SettingsService)

// WithLookupEnv replaces os.LookupEnv, for tests.
func WithLookupEnv(fn func(string) (string, bool)) SettingsOption {
	return func(s *SettingsService) {
		if fn != nil {
			s.lookupEnv = fn
		}
	}
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.ConfigStore, opts ...SettingsOption) *SettingsService {
	s := &SettingsService{
		store:     store,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	c := &settings.Connection

	s.stringValue(KeyEndpoint, EnvEndpoint, &c.Endpoint)
	s.stringValue(KeyToken, EnvToken, &c.Token)
	s.stringValue(KeyKeyspace, EnvKeyspace, &c.Keyspace)
	s.stringValue(KeyTable, EnvTable, &c.Table)
	s.intValue(KeyTimeoutSecs, &c.TimeoutSecs)
	s.intValue(KeyRequestsPerSecond, &c.RequestsPerSecond)
	*c = c.WithDefaults()

	s.intValue(KeyDebounceMs, &settings.Sync.DebounceMs)
	if exts := s.store.GetStringSlice(KeyExtensions); len(exts) > 0 {
		settings.Sync.Extensions = exts
	}

	s.intValue(KeyTopK, &settings.Search.TopK)

	return &settings, nil
}

// ConnectionSettings returns the settings used to reach the index.
func (s *SettingsService) ConnectionSettings() (domain.ConnectionSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return domain.ConnectionSettings{}, err
	}
	return settings.Connection, nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: empty value for %s (use unset to clear it)", domain.ErrInvalidInput, key)
	}

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		return s.save(key, n)

	case kindList:
		exts := ParseExtensions(value)
		if len(exts) == 0 {
			return fmt.Errorf("%w: %s needs at least one extension", domain.ErrInvalidInput, key)
		}
		return s.save(key, exts)

	default:
		if key == KeyEndpoint {
			candidate := domain.ConnectionSettings{Endpoint: value, Token: "-"}
			if err := candidate.Validate(); err != nil {
				return err
			}
			value = strings.TrimRight(value, "/")
		}
		return s.save(key, value)
	}
}

// Unset removes a stored value.
func (s *SettingsService) Unset(key string) error {
	if _, ok := settingKinds[key]; !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.store.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Keys returns the known setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseExtensions parses a comma separated extension list such as
// "md, .txt" into lower-case, dot-prefixed, de-duplicated entries.
func ParseExtensions(value string) []string {
	var exts []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(value, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !seen[ext] {
			seen[ext] = true
			exts = append(exts, ext)
		}
	}
	return exts
}

func (s *SettingsService) save(key string, value any) error {
	if err := s.store.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *SettingsService) stringValue(key, env string, dst *string) {
	if v := s.store.GetString(key); v != "" {
		*dst = v
	}
	if v, ok := s.lookupEnv(env); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func (s *SettingsService) intValue(key string, dst *int) {
	if v := s.store.GetInt(key); v > 0 {
		*dst = v
	}
}
