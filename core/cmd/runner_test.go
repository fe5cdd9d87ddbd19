package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/quotebot/core/config"
	coretelegram "github.com/m3rciful/quotebot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type app struct{ opts coretelegram.RunOptions }

func (a app) TelegramRunOptions() (coretelegram.RunOptions, error) { return a.opts, nil }

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("QUOTEBOT_CONFIG", "")
	_, err := Options{ConfigEnvVar: "QUOTEBOT_CONFIG"}.ResolveConfigPath()
	assert.Error(t, err)

	p, err := Options{ConfigEnvVar: "QUOTEBOT_CONFIG", DefaultConfigPath: "config.yaml"}.ResolveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", p)

	t.Setenv("QUOTEBOT_CONFIG", "/etc/quotebot.yaml")
	p, err = Options{ConfigEnvVar: "QUOTEBOT_CONFIG"}.ResolveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/quotebot.yaml", p)

	p, err = Options{ConfigEnvVar: "QUOTEBOT_CONFIG", ConfigPath: "flag.yaml"}.ResolveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "flag.yaml", p)
}

func TestRunWiresLifecycleHooks(t *testing.T) {
	var loadedFrom string
	var started, stopped, loggerClosed bool

	err := Run(Options{
		DefaultConfigPath: "config.yaml",
		ConfigEnvVar:      "QUOTEBOT_TEST_CONFIG",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			loadedFrom = path
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(ConfigCarrier) (TelegramApp, error) {
			return app{opts: coretelegram.RunOptions{
				OnStart: func(context.Context, coretelegram.Runtime) error { started = true; return nil },
				OnStop:  func(context.Context, coretelegram.Runtime) error { stopped = true; return nil },
			}}, nil
		},
		ShutdownLogger: func() error { loggerClosed = true; return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", loadedFrom)
	assert.True(t, started)
	assert.True(t, stopped)
	assert.True(t, loggerClosed)
}

func TestRunPropagatesBootstrapError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(Options{
		DefaultConfigPath: "config.yaml",
		ConfigEnvVar:      "QUOTEBOT_TEST_CONFIG",
		LoadConfig:        func(string) (ConfigCarrier, error) { return carrier{cfg: &coreconfig.Config{}}, nil },
		Bootstrap:         func(ConfigCarrier) (TelegramApp, error) { return nil, boom },
		ShutdownLogger:    func() error { return nil },
	})
	assert.ErrorIs(t, err, boom)
}
