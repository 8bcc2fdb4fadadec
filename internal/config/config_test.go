package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(databaseDriverEnv, "")
	t.Setenv(intervalEnv, "")

	cfg := Load("")

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Scheduler.Interval)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
	assert.Equal(t, "newsdesk:articles", cfg.Events.Stream)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newsdesk.yaml")
	raw := []byte(`
database:
  driver: memory
scheduler:
  interval: 30s
  timezone: Europe/Berlin
http:
  addr: ":9090"
events:
  stream: custom
logging:
  level: debug
  format: json
`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	t.Setenv(httpAddrEnv, ":7070")
	t.Setenv(databaseDriverEnv, "")
	t.Setenv(intervalEnv, "")
	t.Setenv(telegramTokenEnv, "token")

	cfg := Load(path)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Interval)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduler.Location().String())
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "custom", cfg.Events.Stream)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "token", cfg.Notifications.Telegram.BotToken)
}

func TestLoadRejectsBadInterval(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(intervalEnv, "-5s")

	cfg := Load("")

	assert.Equal(t, 10*time.Second, cfg.Scheduler.Interval)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	t.Setenv(intervalEnv, "")
	t.Setenv(httpAddrEnv, "")

	cfg := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}
