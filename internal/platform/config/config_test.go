package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DB_DRIVER", "DB_MAX_CONNS",
		"BOT_TOKEN", "TELEGRAM_CHAT_IDS", "WEBHOOK_URL",
		"DISCORD_BOT_TOKEN", "DISCORD_CHANNEL_IDS", "NOTIFY_WEBHOOK_URLS",
		"NOTIFY_TIMEOUT", "SCAN_TIMEZONE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, "Asia/Jakarta", cfg.ScanLocation.String())
	assert.Empty(t, cfg.Telegram.ChatIDs)
	assert.Empty(t, cfg.Telegram.WebhookURL)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/hewan")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_IDS", "111, 222,-1003")
	t.Setenv("WEBHOOK_URL", "https://relay.example.com/")
	t.Setenv("DISCORD_CHANNEL_IDS", "c1 c2")
	t.Setenv("NOTIFY_WEBHOOK_URLS", "https://a.example/hook")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("SCAN_TIMEZONE", "UTC")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 4, cfg.Database.MaxConns)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, []int64{111, 222, -1003}, cfg.Telegram.ChatIDs)
	assert.Equal(t, "https://relay.example.com", cfg.Telegram.WebhookURL)
	assert.Equal(t, []string{"c1", "c2"}, cfg.Discord.ChannelIDs)
	assert.Equal(t, []string{"https://a.example/hook"}, cfg.Webhooks.URLs)
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, time.UTC, cfg.ScanLocation)
}

func TestLoad_InvalidChatID(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_CHAT_IDS", "111,abc")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc")
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_ConfigFileLists(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_driver: sqlite
telegram_chat_ids:
  - 42
  - 43
discord_channel_ids: ["x"]
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/animals.db", cfg.Database.URL)
	assert.Equal(t, []int64{42, 43}, cfg.Telegram.ChatIDs)
	assert.Equal(t, []string{"x"}, cfg.Discord.ChannelIDs)
}
