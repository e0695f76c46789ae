package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, "src", cfg.Build.Source)
	assert.Equal(t, "build", cfg.Build.Destination)
	assert.Equal(t, "disk", cfg.Build.Backend)
	assert.True(t, cfg.Build.Clean)
	assert.Equal(t, "data", cfg.Data.Path)
	assert.False(t, cfg.Data.Exclude)
	assert.False(t, cfg.Data.AllowScript)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("DATA_PATH", "content/_data")
	t.Setenv("DATA_EXCLUDE", "true")
	t.Setenv("DATA_ALLOWJS", "1")
	t.Setenv("BUILD_SOURCE", "site")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "content/_data", cfg.Data.Path)
	assert.True(t, cfg.Data.Exclude)
	assert.True(t, cfg.Data.AllowScript)
	assert.Equal(t, "site", cfg.Build.Source)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	body := "data:\n  path: meta\n  exclude: true\nbuild:\n  destination: public\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	t.Setenv("BUILD_DESTINATION", "dist")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "meta", cfg.Data.Path)
	assert.True(t, cfg.Data.Exclude)
	// environment wins over the file
	assert.Equal(t, "dist", cfg.Build.Destination)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o644))
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("data = [unclosed"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestBindValues(t *testing.T) {
	v := viper.New()
	bindValues(v, &Config{}, "")

	assert.Equal(t, "8080", v.Get("server.port"))
	assert.Equal(t, "data", v.Get("data.path"))
	assert.True(t, v.IsSet("data.allowjs"))
	assert.True(t, v.IsSet("storage.bucket"))
}
