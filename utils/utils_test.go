package utils

import (
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	t.Parallel()

	a := GenerateID()
	b := GenerateID()
	require.NotEqual(t, a, b)
	require.True(t, IsValidID(a))
	require.False(t, IsValidID("not-a-session"))
	require.False(t, IsValidID(""))
}

func TestConfigureLogger(t *testing.T) {
	t.Cleanup(func() {
		_ = ConfigureLogger("info", LogFileOptions{})
	})

	require.Error(t, ConfigureLogger("loud", LogFileOptions{}))

	require.NoError(t, ConfigureLogger("debug", LogFileOptions{}))
	require.Equal(t, log.DebugLevel, log.GetLevel())

	path := filepath.Join(t.TempDir(), "console.log")
	require.NoError(t, ConfigureLogger("warn", LogFileOptions{Path: path, MaxSizeMB: 1}))
	require.Equal(t, log.WarnLevel, log.GetLevel())
	Warn("rotating log file check", map[string]any{"path": path})
	require.FileExists(t, path)
}
