package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at empty temp dirs so no
// real config or .env leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	for _, k := range []string{"EDA_MISSING_LIMIT", "EDA_BINS", "EDA_MISSING_TOKENS", "EDA_COLOR", "EDA_LOG_LEVEL", "EDA_ADDR", "EDA_SQL_DRIVER", "EDA_SQL_DSN"} {
		t.Setenv(k, "")
	}
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadHomeFile(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte(`
missing_limit: 25
bins: 12
missing_tokens: ["", "?"]
chart:
  width: 6
  height: 4
`), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25.0, cfg.MissingLimit)
	assert.Equal(t, 12, cfg.Bins)
	assert.Equal(t, []string{"", "?"}, cfg.MissingTokens)
	assert.Equal(t, ChartConfig{Width: 6, Height: 4}, cfg.Chart)
	assert.Equal(t, "auto", cfg.Color, "unset keys keep their defaults")
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bins: [1"), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "eda.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bins: 12\ncolor: never\n"), 0644))
	t.Setenv("EDA_BINS", "40")
	t.Setenv("EDA_MISSING_TOKENS", "NA,?")
	t.Setenv("EDA_ADDR", "127.0.0.1:9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Bins)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, []string{"NA", "?"}, cfg.MissingTokens)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestDotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("EDA_LOG_LEVEL=debug\n"), 0644))
	require.NoError(t, os.Unsetenv("EDA_LOG_LEVEL"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestInvalid(t *testing.T) {
	cases := map[string]string{
		"EDA_BINS":          "0",
		"EDA_BINS_HUGE":     "2000000000",
		"EDA_MISSING_LIMIT": "-1",
		"EDA_COLOR":         "rainbow",
		"EDA_SQL_DRIVER":    "sqlite3",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(strings.TrimSuffix(key, "_HUGE"), value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}

	isolate(t)
	t.Setenv("EDA_BINS", "many")
	_, err := Load("")
	assert.ErrorContains(t, err, "EDA_BINS")
}
