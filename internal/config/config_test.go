package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasSaneValues(t *testing.T) {
	t.Parallel()
	d := Default()
	assert.NotEmpty(t, d.IncludePatterns)
	assert.Contains(t, d.ExcludePatterns, "node_modules")
	assert.Equal(t, 7420, d.Server.Port)
	assert.Equal(t, "127.0.0.1", d.Server.Host)
	assert.True(t, d.Watcher.Enabled)
}

func TestLoadFrom_NoConfigFileUsesDefaults(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	cfg, err := LoadFrom(root, "")
	require.NoError(t, err)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, 7420, cfg.Server.Port)
}

func TestLoadFrom_ConfigFileOverridesDefaults(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".context"), 0o755))
	yaml := "server:\n  port: 9999\nembed:\n  model: custom-model\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".context", "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadFrom(root, "")
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "custom-model", cfg.Embed.Model)
}

func TestLoadFrom_EnvVarsOverrideConfigFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".context"), 0o755))
	yaml := "server:\n  port: 9999\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".context", "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("PROJECT_INDEX_PORT", "8080")
	t.Setenv("PROJECT_INDEX_HOST", "0.0.0.0")
	t.Setenv("PROJECT_INDEX_SERVER", "http://remote:9000")

	cfg, err := LoadFrom(root, "")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "http://remote:9000", cfg.ServerURL)
}

func TestAddr_CombinesHostAndPort(t *testing.T) {
	t.Parallel()
	cfg := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: 7420}}
	assert.Equal(t, "127.0.0.1:7420", cfg.Addr())
}
