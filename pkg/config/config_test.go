package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehadigital/roomstatus/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Proxy.Port)
	assert.Equal(t, "0.0.0.0:3001", cfg.Proxy.Addr())
	assert.Equal(t, "*", cfg.Proxy.AllowedOrigins)
	assert.Equal(t, "http://localhost:3001", cfg.Client.ProxyURL)
	assert.Equal(t, 30*time.Second, cfg.Client.PollInterval)
	assert.False(t, cfg.OTEL.Enabled)
	assert.Empty(t, cfg.SharePoint.Username)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PROXY_HOST", "127.0.0.1")
	t.Setenv("PROXY_PORT", "4500")
	t.Setenv("SHAREPOINT_USERNAME", "svc-board")
	t.Setenv("SHAREPOINT_PASSWORD", "secret")
	t.Setenv("POLL_INTERVAL", "5s")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:4500", cfg.Proxy.Addr())
	assert.Equal(t, "svc-board", cfg.SharePoint.Username)
	assert.Equal(t, "secret", cfg.SharePoint.Password)
	assert.Equal(t, 5*time.Second, cfg.Client.PollInterval)
	assert.True(t, cfg.OTEL.Enabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PROXY_PORT", "not-a-port")
	t.Setenv("POLL_INTERVAL", "soon")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Proxy.Port)
	assert.Equal(t, 30*time.Second, cfg.Client.PollInterval)
}

func TestListPath(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	path, err := cfg.SharePoint.ListPath("rooms")
	require.NoError(t, err)
	assert.Equal(t, `/_api/web/lists/getbytitle("Rooms")`, path)

	_, err = cfg.SharePoint.ListPath("beds")
	assert.ErrorContains(t, err, "unknown list")
}
