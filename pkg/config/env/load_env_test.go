package env

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NEWSCTL_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("ENV_PATH", path)
	t.Setenv("NEWSCTL_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("NEWSCTL_TEST_VALUE"))

	err := LoadDotEnv("local", "unused.env")

	require.NoError(t, err)
	assert.Equal(t, "from-file", os.Getenv("NEWSCTL_TEST_VALUE"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, LoadDotEnv("local", ""))
	assert.NoError(t, LoadDotEnv("production", ""))
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"nope":  slog.LevelInfo,
	}
	for raw, want := range tests {
		t.Setenv("LOG_LEVEL", raw)
		assert.Equal(t, want, LogLevel(), raw)
	}
}
