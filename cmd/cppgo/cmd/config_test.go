package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadProjectConfigReadsTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".cppgo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
min_severity = "warning"
enable = ["error", "warning"]
platform = "ilp32"
workers = 8
`), 0o644))

	cfg, err := loadProjectConfig(path)
	require.NoError(t, err)
	require.Equal(t, "warning", cfg.MinSeverity)
	require.Equal(t, []string{"error", "warning"}, cfg.Enable)
	require.Equal(t, "ilp32", cfg.Platform)
	require.Equal(t, 8, cfg.Workers)
}

func TestLoadProjectConfigMissingFileIsNotAnError(t *testing.T) {
	cfg, err := loadProjectConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, ProjectConfig{}, cfg)
}
