package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings ConnectionSettings
		field    string
		wantErr  error
	}{
		{
			name:     "valid",
			settings: ConnectionSettings{Endpoint: "https://db.example.com", Token: "AstraCS:abc"},
		},
		{
			name:     "missing endpoint",
			settings: ConnectionSettings{Token: "AstraCS:abc"},
			field:    "endpoint",
			wantErr:  ErrMissingEndpoint,
		},
		{
			name:     "blank endpoint",
			settings: ConnectionSettings{Endpoint: "   ", Token: "AstraCS:abc"},
			field:    "endpoint",
			wantErr:  ErrMissingEndpoint,
		},
		{
			name:     "missing token",
			settings: ConnectionSettings{Endpoint: "https://db.example.com"},
			field:    "token",
			wantErr:  ErrMissingToken,
		},
		{
			name:     "relative endpoint",
			settings: ConnectionSettings{Endpoint: "db.example.com", Token: "t"},
			field:    "endpoint",
			wantErr:  ErrInvalidEndpoint,
		},
		{
			name:     "unsupported scheme",
			settings: ConnectionSettings{Endpoint: "ftp://db.example.com", Token: "t"},
			field:    "endpoint",
			wantErr:  ErrInvalidEndpoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConnectionSettings_WithDefaults(t *testing.T) {
	s := ConnectionSettings{Endpoint: " https://db.example.com/ ", Token: " tok "}.WithDefaults()

	assert.Equal(t, "https://db.example.com", s.Endpoint)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, DefaultKeyspace, s.Keyspace)
	assert.Equal(t, DefaultTable, s.Table)
	assert.Equal(t, 30*time.Second, s.Timeout())
	assert.Equal(t, DefaultRequestsPerSecond, s.RequestsPerSecond)

	custom := ConnectionSettings{Keyspace: "ks", Table: "t", TimeoutSecs: 5}.WithDefaults()
	assert.Equal(t, "ks", custom.Keyspace)
	assert.Equal(t, "t", custom.Table)
	assert.Equal(t, 5, custom.TimeoutSecs)
}

func TestConnectionSettings_Equal(t *testing.T) {
	a := ConnectionSettings{Endpoint: "https://a", Token: "t", Keyspace: "k"}

	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(ConnectionSettings{Endpoint: "https://a", Token: "t2", Keyspace: "k"}))
	assert.False(t, a.Equal(ConnectionSettings{Endpoint: "https://a", Token: "t", Keyspace: "other"}))
	assert.False(t, a.Equal(ConnectionSettings{Endpoint: "https://b", Token: "t", Keyspace: "k"}))
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Empty(t, s.Connection.Endpoint)
	assert.Empty(t, s.Connection.Token)
	assert.Equal(t, "default_keyspace", s.Connection.Keyspace)
	assert.Equal(t, 5*time.Second, s.Sync.Debounce())
	assert.Equal(t, []string{".md"}, s.Sync.Extensions)
	assert.Equal(t, 3, s.Search.TopK)

	// Mutating the copy must not leak into the package default.
	s.Sync.Extensions[0] = ".txt"
	assert.Equal(t, []string{".md"}, DefaultExtensions)
}
