package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, defaultServerAddress, cfg.ServerAddress)
	assert.Equal(t, "http://"+defaultServerAddress, cfg.BaseURL())
	assert.Equal(t, filepath.Join(dir, "medtracker.db"), cfg.DataPath)
	assert.Equal(t, filepath.Join(dir, "token"), cfg.TokenPath)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 10*time.Second, cfg.StepTimeout)
	assert.Equal(t, 5*time.Minute, cfg.SyncPeriod())
	assert.Equal(t, "myapp", cfg.DeepLinkScheme)
	assert.True(t, cfg.DevicePhysical)
	assert.False(t, cfg.StrictChronological)
	assert.True(t, cfg.IsLocal())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SERVER_ADDRESS", "api.example.com")
	t.Setenv("ENABLE_TLS", "true")
	t.Setenv("LOCALE", "pt-BR")
	t.Setenv("REMINDER_STEP_TIMEOUT", "3s")
	t.Setenv("DEVICE_PHYSICAL", "false")
	t.Setenv("STRICT_CHRONOLOGICAL_ORDER", "true")
	t.Setenv("SYNC_INTERVAL_SECONDS", "60")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "https://api.example.com", cfg.BaseURL())
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, 3*time.Second, cfg.StepTimeout)
	assert.False(t, cfg.DevicePhysical)
	assert.True(t, cfg.StrictChronological)
	assert.Equal(t, time.Minute, cfg.SyncPeriod())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	content := "server_address: backend.local:9000\nlocale: ru\ndispatch_interval: 1m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "backend.local:9000", cfg.ServerAddress)
	assert.Equal(t, "ru", cfg.Locale)
	assert.Equal(t, time.Minute, cfg.DispatchInterval)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())

	t.Run("unknown env", func(t *testing.T) {
		t.Setenv("APP_ENV", "staging")
		_, err := Load(viper.New(), "")
		assert.Error(t, err)
	})

	t.Run("zero interval", func(t *testing.T) {
		t.Setenv("SYNC_INTERVAL_SECONDS", "0")
		_, err := Load(viper.New(), "")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
