package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYaml(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGet_Defaults(t *testing.T) {
	conf, err := Get(nil)
	require.NoError(t, err)

	assert.Equal(t, Config{LogLevel: "warn", Header: true, Trim: true}, conf)
}

func TestGet_InputFile(t *testing.T) {
	conf, err := Get([]string{"transactions.csv"})
	require.NoError(t, err)
	assert.Equal(t, "transactions.csv", conf.Input)
}

func TestGet_Flags(t *testing.T) {
	conf, err := Get([]string{"--log-level", "DEBUG", "--no-header", "--no-trim", "--summary", "in.csv"})
	require.NoError(t, err)

	assert.Equal(t, Config{Input: "in.csv", LogLevel: "debug", Header: false, Trim: false, Summary: true}, conf)
}

func TestGet_TooManyArguments(t *testing.T) {
	_, err := Get([]string{"a.csv", "b.csv"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestGet_UnknownFlag(t *testing.T) {
	_, err := Get([]string{"--verbose"})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestGet_InvalidLogLevel(t *testing.T) {
	_, err := Get([]string{"--log-level", "loud"})
	assert.Error(t, err)
}

func TestGet_Yaml(t *testing.T) {
	path := writeYaml(t, "log_level: info\nheader: false\nsummary: true\n")

	conf, err := Get([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, Config{LogLevel: "info", Header: false, Trim: true, Summary: true}, conf)
}

func TestGet_FlagsOverrideYaml(t *testing.T) {
	path := writeYaml(t, "log_level: info\ntrim: true\n")

	conf, err := Get([]string{"--config", path, "--log-level", "error", "--no-trim"})
	require.NoError(t, err)

	assert.Equal(t, "error", conf.LogLevel)
	assert.False(t, conf.Trim)
}

func TestGet_YamlErrors(t *testing.T) {
	_, err := Get([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	path := writeYaml(t, "header: [1, 2\n")
	_, err = Get([]string{"--config", path})
	assert.Error(t, err)

	path = writeYaml(t, "log_level: chatty\n")
	_, err = Get([]string{"--config", path})
	assert.Error(t, err)
}
