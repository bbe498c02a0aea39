package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfigFile(t *testing.T, content map[string]any) string {
	t.Helper()
	data, err := yaml.Marshal(content)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "craftdet.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	viper.Reset()
	loader := NewLoader()

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoader_LoadWithFile(t *testing.T) {
	viper.Reset()
	path := writeConfigFile(t, map[string]any{
		"log_level": "debug",
		"workers":   8,
		"extraction": map[string]any{
			"text_threshold": 0.5,
			"size_threshold": 20,
		},
		"server": map[string]any{
			"port": 9090,
		},
	})

	loader := NewLoader()
	cfg, err := loader.LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Workers)
	assert.InDelta(t, 0.5, cfg.Extraction.TextThreshold, 1e-6)
	assert.Equal(t, 20, cfg.Extraction.SizeThreshold)
	assert.Equal(t, 9090, cfg.Server.Port)

	// unset keys keep defaults
	assert.InDelta(t, 0.7, cfg.Extraction.DetectionThreshold, 1e-6)
	assert.Equal(t, "localhost", cfg.Server.Host)

	assert.Equal(t, path, loader.GetConfigFileUsed())
}

func TestLoader_LoadWithFile_Missing(t *testing.T) {
	viper.Reset()
	loader := NewLoader()
	_, err := loader.LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoader_LoadWithFile_EmptyFallsBack(t *testing.T) {
	viper.Reset()
	loader := NewLoader()
	cfg, err := loader.LoadWithFile("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoader_InvalidConfigRejected(t *testing.T) {
	viper.Reset()
	path := writeConfigFile(t, map[string]any{
		"log_level": "shout",
	})

	loader := NewLoader()
	_, err := loader.LoadWithFile(path)
	assert.Error(t, err)
}

func TestLoader_EnvironmentOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("CRAFTDET_LOG_LEVEL", "warn")
	t.Setenv("CRAFTDET_SERVER_PORT", "3000")

	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3000, cfg.Server.Port)
}
