package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_AppliesDefaults(t *testing.T) {
	t.Parallel()

	server := NewServer(APIConfig{}, nil, nil)
	assert.Equal(t, 8080, server.Port())
	assert.Equal(t, 10*time.Second, server.server.ReadTimeout)
	assert.Equal(t, 60*time.Second, server.server.IdleTimeout)
}

func TestAPIConfig_IsEnabled(t *testing.T) {
	t.Parallel()

	var cfg APIConfig
	assert.True(t, cfg.IsEnabled())

	disabled := false
	cfg.Enabled = &disabled
	assert.False(t, cfg.IsEnabled())
}

func TestAPIServer_Lifecycle(t *testing.T) {
	enabled := true
	cfg := APIConfig{
		Enabled:      &enabled,
		Port:         18481,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  10 * time.Second,
	}

	server := NewServer(cfg, newRegistry(t, true), nil)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get(fmt.Sprintf("http://localhost:%d/health/ready", cfg.Port))
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 5*time.Second, 20*time.Millisecond)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shut down in time")
	}

	// Stop after shutdown is a no-op
	assert.NoError(t, server.Stop(context.Background()))
}
