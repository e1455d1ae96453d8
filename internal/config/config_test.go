package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 10, cfg.Room.Capacity)
	assert.Equal(t, 10, cfg.Room.Award)
	assert.Equal(t, time.Second, cfg.Timer.Tick)
	assert.Equal(t, []string{"python3"}, cfg.Exec.Interpreter)
	assert.Equal(t, 5*time.Second, cfg.Exec.Timeout)
	assert.Equal(t, int64(4), cfg.Exec.MaxConcurrent)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "coderoom", cfg.Redis.Prefix)
	assert.Equal(t, 20, cfg.RateLimit.Messages)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Interval)
}

func TestLoadFile_YAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: debug
port: 9000
room:
  capacity: 3
exec:
  interpreter: ["python3", "-I"]
  timeout: 2s
redis:
  addr: localhost:6379
`), 0o600))
	t.Setenv("CODEROOM_PORT", "9100")
	t.Setenv("CODEROOM_ROOM_AWARD", "25")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 3, cfg.Room.Capacity)
	assert.Equal(t, 25, cfg.Room.Award)
	assert.Equal(t, []string{"python3", "-I"}, cfg.Exec.Interpreter)
	assert.Equal(t, 2*time.Second, cfg.Exec.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [\n"), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
}
