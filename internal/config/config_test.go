package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
	require.Equal(t, time.Second, cfg.Listing.Tick)
	require.Equal(t, time.Minute, cfg.Listing.Refresh)
	require.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.yaml")
	body := []byte(`
server:
  port: 4000
backend:
  base_url: https://auction.example.com
  timeout: 3s
session:
  store: sqlite
  sqlite_path: /tmp/sessions.db
display:
  timezone: Europe/Berlin
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("PORT", "4100")
	t.Setenv("AUCTION_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4100, cfg.Server.Port)
	require.Equal(t, "https://auction.example.com", cfg.Backend.BaseURL)
	require.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	require.Equal(t, StoreSQLite, cfg.Session.Store)
	require.Equal(t, "/tmp/sessions.db", cfg.Session.SQLitePath)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "Europe/Berlin", cfg.Location().String())
	// untouched defaults survive a partial file
	require.Equal(t, "auction_session", cfg.Session.CookieName)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
		body string
	}{
		{name: "bad_port_env", env: map[string]string{"PORT": "eighty"}},
		{name: "port_out_of_range", env: map[string]string{"PORT": "70000"}},
		{name: "relative_backend", env: map[string]string{"AUCTION_BACKEND_URL": "/api"}},
		{name: "unknown_store", env: map[string]string{"AUCTION_SESSION_STORE": "etcd"}},
		{name: "unknown_timezone", env: map[string]string{"AUCTION_TIMEZONE": "Mars/Olympus"}},
		{name: "missing_file", file: "does-not-exist.yaml"},
		{name: "negative_ttl", file: "console.yaml", body: "session:\n  ttl: -1h\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.file != "" {
				path = filepath.Join(t.TempDir(), tc.file)
			}
			if tc.body != "" {
				require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o600))
			}
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoad_ZeroTTLMeansNoExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session:\n  store: sqlite\n  ttl: 0s\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Zero(t, cfg.Session.TTL)
}
