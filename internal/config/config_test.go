package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Cache.Enabled)
	assert.Empty(t, cfg.Ignore)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deadmod.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
ignore = ["generated", "*_gen"]
exclude = ["fixtures"]

[output]
format = "json"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"generated", "*_gen"}, cfg.Ignore)
	assert.Equal(t, []string{"fixtures"}, cfg.Exclude)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deadmod.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ignore:\n  - legacy\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy"}, cfg.Ignore)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deadmod.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ignore": ["old"]}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, cfg.Ignore)
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deadmod.toml")
	require.NoError(t, os.WriteFile(path, []byte("ignore = [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg := LoadOrDefault(t.TempDir())
	assert.Equal(t, Default(), cfg)
}

func TestLoadOrDefaultFindsConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deadmod.toml"),
		[]byte(`ignore = ["x"]`), 0o644))

	cfg := LoadOrDefault(dir)
	assert.Equal(t, []string{"x"}, cfg.Ignore)
}

func TestMergeIgnoresCLIPrecedence(t *testing.T) {
	cfg := Default()
	cfg.Ignore = []string{"from_file", "shared"}

	merged := cfg.MergeIgnores([]string{"from_cli", "shared"})

	assert.Equal(t, []string{"from_cli", "shared", "from_file"}, merged)
}
