package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Missing File Yields Defaults", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "ffmpeg", cfg.Dependencies.Probe)
		assert.Equal(t, []string{"ffmpeg"}, cfg.Dependencies.Packages)
		assert.Equal(t, "cookies.txt", cfg.Credentials.Primary)
		assert.Equal(t, filepath.Join("attached_assets", "cookies.txt"), cfg.Credentials.Fallback)
		assert.Empty(t, cfg.Server.Command)
		assert.Equal(t, []string{"python3", "run_bot_only.py"}, cfg.Worker.Command)
		assert.Equal(t, 50, cfg.ErrorHistory)
	})

	t.Run("File Overrides Defaults", func(t *testing.T) {
		dir := t.TempDir()
		content := `
dependencies:
  probe: ffprobe
  packages: [ffmpeg, libopus0]
server:
  command: [gunicorn, --bind, "0.0.0.0:${PORT}", --reuse-port, --log-level, info, "main:app"]
redis:
  address: localhost:6379
error_history: 10
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(content), 0o644))

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "ffprobe", cfg.Dependencies.Probe)
		assert.Equal(t, []string{"ffmpeg", "libopus0"}, cfg.Dependencies.Packages)
		assert.Equal(t, "gunicorn", cfg.Server.Command[0])
		assert.Equal(t, "localhost:6379", cfg.Redis.Address)
		assert.Equal(t, 10, cfg.ErrorHistory)
		// Untouched sections keep their defaults.
		assert.Equal(t, "cookies.txt", cfg.Credentials.Primary)
	})

	t.Run("Malformed File Is An Error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("{{nope"), 0o644))

		_, err := Load(dir)
		assert.Error(t, err)
	})

	t.Run("Environment Overrides Redis Address", func(t *testing.T) {
		t.Setenv(EnvRedisAddr, "redis.internal:6379")

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "redis.internal:6379", cfg.Redis.Address)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("Explicit Path Is Honored", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "custom.yaml")
		content := `
worker:
  command: [python3, bot.py]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"python3", "bot.py"}, cfg.Worker.Command)
		assert.Equal(t, "ffmpeg", cfg.Dependencies.Probe)
	})

	t.Run("Missing Explicit File Is An Error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nowhere.yaml"))
		assert.Error(t, err)
	})
}

func TestPort(t *testing.T) {
	t.Run("Unset", func(t *testing.T) {
		t.Setenv(EnvPort, "")

		_, err := Port()
		assert.Error(t, err)
	})

	t.Run("Valid", func(t *testing.T) {
		t.Setenv(EnvPort, "8080")

		port, err := Port()
		require.NoError(t, err)
		assert.Equal(t, 8080, port)
	})

	t.Run("Garbage", func(t *testing.T) {
		t.Setenv(EnvPort, "eighty")

		_, err := Port()
		assert.Error(t, err)
	})

	t.Run("Out Of Range", func(t *testing.T) {
		t.Setenv(EnvPort, "70000")

		_, err := Port()
		assert.Error(t, err)
	})
}
