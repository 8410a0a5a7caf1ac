package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiterStore_MemoryWithoutURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, closeFn, err := NewLimiterStore(context.Background(), "", logger)
	require.NoError(t, err)
	require.NotNil(t, store)
	require.NotNil(t, closeFn)
	closeFn()
}

func TestConnectRedis_InvalidURL(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "not-a-redis-url")
	assert.Error(t, err)
}
