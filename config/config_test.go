package config_test

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/CodMac/go-spring-visualizer/config"
	"github.com/CodMac/go-spring-visualizer/logging"
	"github.com/CodMac/go-spring-visualizer/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv 隔离外部环境变量
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{logging.EnvLevel, config.EnvFeatures, config.EnvWorkers} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load([]string{"src"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Root)
	assert.Equal(t, config.FormatDOT, cfg.Format)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, []string{"import", "autowired", "bean"}, cfg.Features)

	fs, err := cfg.FeatureSet()
	require.NoError(t, err)
	assert.Equal(t, output.DefaultFeatures(), fs)
}

func TestLoad_Layering(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "springviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: from-file
format: jsonl
workers: 3
features: [import]
logLevel: info
ignoreDirs: [generated]
`), 0o644))

	t.Run("File", func(t *testing.T) {
		cfg, err := config.Load([]string{"-config", path}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Root)
		assert.Equal(t, config.FormatJSONL, cfg.Format)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, []string{"import"}, cfg.Features)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, []string{"generated"}, cfg.IgnoreDirs)
	})

	t.Run("Env Over File", func(t *testing.T) {
		t.Setenv(config.EnvWorkers, "5")
		t.Setenv(config.EnvFeatures, "bean, componentscan")
		t.Setenv(logging.EnvLevel, "debug")
		cfg, err := config.Load([]string{"-config", path}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Workers)
		assert.Equal(t, []string{"bean", "componentscan"}, cfg.Features)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("Flags Over Env", func(t *testing.T) {
		t.Setenv(config.EnvWorkers, "5")
		cfg, err := config.Load([]string{"-config", path, "-workers", "2", "-format", "mermaid",
			"-features", "autowired", "-log-level", "off", "other"}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, "other", cfg.Root)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, config.FormatMermaid, cfg.Format)
		assert.Equal(t, []string{"autowired"}, cfg.Features)
		assert.Equal(t, "off", cfg.LogLevel)
	})

	t.Run("Dotenv", func(t *testing.T) {
		clearEnv(t)
		os.Unsetenv(config.EnvWorkers)
		require.NoError(t, os.WriteFile(".env", []byte(config.EnvWorkers+"=7\n"), 0o644))
		cfg, err := config.Load([]string{"src"}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Workers)
	})
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	cases := map[string][]string{
		"Missing Root":     {},
		"Two Roots":        {"a", "b"},
		"Unknown Flag":     {"-verbose", "src"},
		"Unknown Feature":  {"-features", "import,xml", "src"},
		"Empty Features":   {"-features", ",", "src"},
		"Unknown Format":   {"-format", "svg", "src"},
		"Bad Log Level":    {"-log-level", "loud", "src"},
		"Negative Workers": {"-workers", "-1", "src"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(args, io.Discard)
			assert.ErrorIs(t, err, config.ErrUsage)
		})
	}

	t.Run("Bad Workers Env", func(t *testing.T) {
		t.Setenv(config.EnvWorkers, "many")
		_, err := config.Load([]string{"src"}, io.Discard)
		assert.ErrorIs(t, err, config.ErrUsage)
	})

	t.Run("Missing Config File", func(t *testing.T) {
		_, err := config.Load([]string{"-config", filepath.Join(t.TempDir(), "none.yaml"), "src"}, io.Discard)
		assert.Error(t, err)
		assert.False(t, errors.Is(err, config.ErrUsage))
	})

	t.Run("Help", func(t *testing.T) {
		_, err := config.Load([]string{"-h"}, io.Discard)
		assert.ErrorIs(t, err, flag.ErrHelp)
	})
}
