package driving

import "github.com/custodia-labs/vecsync/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with defaults applied
	// and environment overrides in effect.
	Get() (*domain.AppSettings, error)

	// ConnectionSettings returns the settings used to reach the index.
	ConnectionSettings() (domain.ConnectionSettings, error)

	// Set parses value for a known key and persists it.
	Set(key, value string) error

	// Unset removes a stored value so the default applies again.
	Unset(key string) error

	// Keys returns the known setting keys.
	Keys() []string
}
