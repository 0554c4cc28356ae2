package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// ConnState is the state of the index connection.
type ConnState int

const (
	// StateDisconnected means no client is open.
	StateDisconnected ConnState = iota

	// StateConnecting means a dial or schema check is in progress.
	StateConnecting

	// StateConnected means a client is open for the current settings.
	StateConnected

	// StateFailed means connecting with the current settings failed. The
	// failure is returned again until the settings change.
	StateFailed
)

// String returns the lower-case name of the state.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SettingsProvider supplies the current connection settings.
type SettingsProvider interface {
	ConnectionSettings() (domain.ConnectionSettings, error)
}

// ClientProvider hands out a live index client.
type ClientProvider interface {
	Acquire(ctx context.Context) (driven.IndexClient, error)
}

// Ensure ConnectionManager implements the interface.
var _ ClientProvider = (*ConnectionManager)(nil)

// ConnectionManager owns the single index connection.
//
// The mutex is held for the whole connect sequence, so callers that arrive
// while a connect is in flight wait for it and then reuse its client
// instead of dialling again.
type ConnectionManager struct {
	dialer   driven.IndexDialer
	provider SettingsProvider

	mu       sync.Mutex
	state    ConnState
	settings domain.ConnectionSettings
	client   driven.IndexClient
	err      error
}

// NewConnectionManager creates a manager. provider may be nil if callers
// only use EnsureConnected.
func NewConnectionManager(dialer driven.IndexDialer, provider SettingsProvider) *ConnectionManager {
	return &ConnectionManager{
		dialer:   dialer,
		provider: provider,
		state:    StateDisconnected,
	}
}

// EnsureConnected makes sure a client is open for settings.
//
// Invalid settings return a *domain.ConfigurationError without dialling.
// Identical settings to the open connection are a no-op. Identical settings
// to a failed connection return the same *domain.ConnectionError. Anything
// else closes the old client, dials, and ensures the schema.
func (m *ConnectionManager) EnsureConnected(ctx context.Context, settings domain.ConnectionSettings) error {
	_, err := m.connect(ctx, settings)
	return err
}

// Acquire loads the current settings and returns a client for them.
func (m *ConnectionManager) Acquire(ctx context.Context) (driven.IndexClient, error) {
	if m.provider == nil {
		return nil, &domain.ConfigurationError{Err: errors.New("settings provider not configured")}
	}

	settings, err := m.provider.ConnectionSettings()
	if err != nil {
		return nil, err
	}
	return m.connect(ctx, settings)
}

// State returns the current state.
func (m *ConnectionManager) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Settings returns the settings of the current or last attempted connection.
func (m *ConnectionManager) Settings() domain.ConnectionSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// Close closes the open client and returns to Disconnected.
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.client != nil {
		err = m.client.Close()
		m.client = nil
	}
	m.state = StateDisconnected
	m.settings = domain.ConnectionSettings{}
	m.err = nil
	return err
}

func (m *ConnectionManager) connect(ctx context.Context, settings domain.ConnectionSettings) (driven.IndexClient, error) {
	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	//nolint:exhaustive // only settled states short-circuit
	switch m.state {
	case StateConnected:
		if m.settings.Equal(settings) {
			return m.client, nil
		}
	case StateFailed:
		if m.settings.Equal(settings) {
			return nil, m.err
		}
	}

	// 1. Tear down the previous connection
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			logger.Warn("closing previous index client: %v", err)
		}
		m.client = nil
	}

	m.state = StateConnecting
	m.settings = settings
	m.err = nil
	logger.Info("Connecting to %s (keyspace %s, table %s)", settings.Endpoint, settings.Keyspace, settings.Table)

	// 2. Dial
	client, err := m.dialer.Dial(ctx, settings)
	if err != nil {
		return nil, m.fail(ctx, "dial", err)
	}

	// 3. Create table and indexes if missing
	if err := client.EnsureSchema(ctx); err != nil {
		_ = client.Close()
		return nil, m.fail(ctx, "ensure schema", err)
	}

	m.client = client
	m.state = StateConnected
	logger.Debug("Connected to %s", settings.Endpoint)
	return client, nil
}

// fail records a connect failure (caller must hold lock). A failure caused
// by the caller's context is not remembered, so the next call retries.
func (m *ConnectionManager) fail(ctx context.Context, op string, err error) error {
	connErr := &domain.ConnectionError{Endpoint: m.settings.Endpoint, Op: op, Err: err}

	if ctx.Err() != nil {
		m.state = StateDisconnected
		m.settings = domain.ConnectionSettings{}
		return connErr
	}

	m.state = StateFailed
	m.err = connErr
	logger.Error("Connection to %s failed: %v", m.settings.Endpoint, err)
	return connErr
}
