package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "a missing config file falls back to defaults")
	assert.Equal(t, "0 30 22 * * 1-5", cfg.Schedule.DailyCron)
	assert.Equal(t, "data/sentinel.db", cfg.Database.SQLitePath)
	assert.Equal(t, 30, cfg.Redis.TTLMinutes)
	assert.Empty(t, cfg.Watchlist)
}

func TestLoad_FileAndOverrides(t *testing.T) {
	path := writeConfig(t, `
watchlist: [AAPL, MSFT]
telegram:
  bot_token: file-token
  chat_id: "123"
alerts:
  z: 2.5
redis:
  addr: localhost:6379
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("WATCHLIST", "spy, qqq")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken, "env wins over file")
	assert.Equal(t, []string{"spy", "qqq"}, cfg.Watchlist)
	assert.Equal(t, 2.5, cfg.Alerts.Z)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "watchlist: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate(), "empty watchlist rejected")

	cfg.Watchlist = []string{"AAPL"}
	assert.NoError(t, cfg.Validate())

	cfg.Telegram.BotToken = "tok"
	assert.Error(t, cfg.Validate(), "token without chat id rejected")

	cfg.Telegram.ChatID = "123"
	assert.NoError(t, cfg.Validate())
}
