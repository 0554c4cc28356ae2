package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecsync/internal/logger"
)

func TestWatchCmd_StopsOnCancel(t *testing.T) {
	setupTestServices(t)
	called := false
	watchFunc = func(ctx context.Context) error {
		called = true
		assert.NotNil(t, ctx)
		assert.True(t, logger.Timestamps(), "watch logs carry timestamps")
		return context.Canceled
	}

	out, err := execute(t, "watch")

	require.NoError(t, err)
	assert.True(t, called)
	assert.Contains(t, out, "Watching for changes. Press Ctrl+C to stop.")
	assert.Contains(t, out, "Stopped.")
	assert.False(t, logger.Timestamps())
}

func TestWatchCmd_Error(t *testing.T) {
	setupTestServices(t)
	watchFunc = func(context.Context) error { return errors.New("too many open files") }

	_, err := execute(t, "watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch failed: too many open files")
}

func TestWatchCmd_NotConfigured(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault watcher not configured")
}
