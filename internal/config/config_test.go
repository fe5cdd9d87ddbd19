package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	unsetEnv(t, "BOT_TOKEN", "QUOTES_BASE_URL", "LOG_LEVEL", "TELEGRAM_RUN_MODE")
	path := writeConfig(t, `
telegram:
  token: "123:abc"
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "longpoll", cfg.Telegram.RunMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DefaultQuotesBaseURL, cfg.Quotes.BaseURL)
	assert.Equal(t, 8*time.Second, cfg.Quotes.Timeout())
	assert.Equal(t, 1, cfg.Quotes.Burst)
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	unsetEnv(t, "TELEGRAM_RUN_MODE", "HEALTH_LISTEN")
	t.Setenv("BOT_TOKEN", "999:env")
	t.Setenv("QUOTES_BASE_URL", "http://localhost:8080/")
	path := writeConfig(t, `
telegram:
  token: "123:file"
quotes:
  timeout_seconds: 3
  requests_per_second: 2.5
  burst: 4
health:
  listen: "127.0.0.1:8081"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "999:env", cfg.Telegram.Token)
	assert.Equal(t, "http://localhost:8080", cfg.Quotes.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Quotes.Timeout())
	assert.InDelta(t, 2.5, cfg.Quotes.RequestsPerSecond, 0.001)
	assert.Equal(t, 4, cfg.Quotes.Burst)
	assert.Equal(t, "127.0.0.1:8081", cfg.Health.Listen)
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing token", cfg: Config{}},
		{name: "bad base url", cfg: func() Config {
			c := Config{Quotes: QuotesConfig{BaseURL: "api.quotable.io"}}
			c.Telegram.Token = "t"
			return c
		}()},
		{name: "negative timeout", cfg: func() Config {
			c := Config{Quotes: QuotesConfig{TimeoutSeconds: -1}}
			c.Telegram.Token = "t"
			return c
		}()},
		{name: "bad health listen", cfg: func() Config {
			c := Config{Health: HealthConfig{Listen: "8081"}}
			c.Telegram.Token = "t"
			return c
		}()},
		{name: "bad run mode", cfg: func() Config {
			c := Config{}
			c.Telegram.Token = "t"
			c.Telegram.RunMode = "carrier-pigeon"
			return c
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.Error(t, Normalize(&cfg))
		})
	}
	assert.Error(t, Normalize(nil))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
