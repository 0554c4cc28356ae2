package driven

// ConfigStore provides access to application configuration as flat,
// dot-separated keys such as "index.endpoint".
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if key doesn't exist or isn't a slice.
	GetStringSlice(key string) []string

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Unset removes a key and persists the change.
	// Removing a missing key is not an error.
	Unset(key string) error

	// Keys returns all stored keys in sorted order.
	Keys() []string

	// Path returns the configuration file path, or "" for stores that are
	// not file backed.
	Path() string
}
