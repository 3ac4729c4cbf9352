package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config file lookup at an empty location and clears
// the relevant env vars so tests do not pick up the host environment.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("FIXITY_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	for _, key := range []string{
		"FEDORA_ROOT", "FEDORA_USER", "FEDORA_PASSWORD",
		"FIXITY_MODEL_URI", "FIXITY_HTTP_TIMEOUT", "FIXITY_LOG_FILE", "FIXITY_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg := Load()
	assert.Empty(t, cfg.FedoraRoot)
	assert.Equal(t, DefaultModelURI, cfg.ModelURI)
	assert.Equal(t, 5*time.Minute, cfg.HTTPTimeout)
	assert.Equal(t, "/tmp/fixity.log", cfg.LogFile)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FEDORA_ROOT", "https://fedora.example.com/fedora/")
	t.Setenv("FEDORA_USER", "fedoraAdmin")
	t.Setenv("FIXITY_HTTP_TIMEOUT", "30s")
	t.Setenv("FIXITY_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "https://fedora.example.com/fedora/", cfg.FedoraRoot)
	assert.Equal(t, "fedoraAdmin", cfg.FedoraUser)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"fedora_root: https://repo.example.org/fedora/\nfedora_user: auditor\nlog_level: INFO\n",
	), 0644))
	t.Setenv("FIXITY_CONFIG", path)

	cfg := Load()
	assert.Equal(t, "https://repo.example.org/fedora/", cfg.FedoraRoot)
	assert.Equal(t, "auditor", cfg.FedoraUser)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestEnvBeatsConfigFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fedora_user: from-file\n"), 0644))
	t.Setenv("FIXITY_CONFIG", path)
	t.Setenv("FEDORA_USER", "from-env")

	cfg := Load()
	assert.Equal(t, "from-env", cfg.FedoraUser)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"nonsense", slog.LevelWarn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}
