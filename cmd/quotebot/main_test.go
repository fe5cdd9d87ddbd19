package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corecmd "github.com/m3rciful/quotebot/core/cmd"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "quotebot dev (commit local, built unknown")
}

func TestConfigCheck(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	path := filepath.Join(t.TempDir(), "quotebot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quotes:\n  timeout_seconds: 5\n"), 0o600))

	out, err := execute(t, "config", "check", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "run_mode: longpoll")
	assert.Contains(t, out, "quotes.timeout: 5s")
	assert.Contains(t, out, "OK")
}

func TestConfigCheckMissingFile(t *testing.T) {
	_, err := execute(t, "config", "check", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunPassesConfigFlag(t *testing.T) {
	var got corecmd.Options
	prev := runBot
	runBot = func(opts corecmd.Options) error {
		got = opts
		return nil
	}
	t.Cleanup(func() { runBot = prev })

	_, err := execute(t, "run", "--config", "/etc/quotebot.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/quotebot.yaml", got.ConfigPath)
	assert.Equal(t, configEnvVar, got.ConfigEnvVar)
	assert.NotNil(t, got.LoadConfig)

	_, err = execute(t)
	require.NoError(t, err)
	assert.Empty(t, got.ConfigPath)
}
