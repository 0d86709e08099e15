package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Equal(t, "read", cfg.Goodreads.Shelf)
	assert.Equal(t, "10s", cfg.Goodreads.Timeout)
	assert.Zero(t, cfg.Goodreads.MaxParallel)
	assert.Equal(t, "goversion", cfg.Release.Tool)
	assert.Equal(t, "internal/version/version.go", cfg.Release.VersionFile)
	assert.Empty(t, cfg.Cache.Path)
}

func TestDefaultTimeoutParses(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	d, err := cfg.Goodreads.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, configPath, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, configPath)
	assert.Equal(t, "read", cfg.Goodreads.Shelf)
	assert.Equal(t, "goversion", cfg.Release.Tool)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	toml := `
[goodreads]
shelf = "currently-reading"
timeout = "30s"
max_parallel = 8

[release]
tool = "bump2version"
version_file = "pkg/meta/version.go"

[cache]
path = "/tmp/goreads-test.db"
`
	err := os.WriteFile(filepath.Join(dir, FileName), []byte(toml), 0o644)
	require.NoError(t, err)

	cfg, configPath, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), configPath)
	assert.Equal(t, "currently-reading", cfg.Goodreads.Shelf)
	assert.Equal(t, "30s", cfg.Goodreads.Timeout)
	assert.Equal(t, 8, cfg.Goodreads.MaxParallel)
	assert.Equal(t, "bump2version", cfg.Release.Tool)
	assert.Equal(t, "pkg/meta/version.go", cfg.Release.VersionFile)
	assert.Equal(t, "/tmp/goreads-test.db", cfg.Cache.Path)
}

func TestLoadPartialFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	toml := `
[release]
tool = "bump2version"
`
	err := os.WriteFile(filepath.Join(dir, FileName), []byte(toml), 0o644)
	require.NoError(t, err)

	cfg, _, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "bump2version", cfg.Release.Tool)
	assert.Equal(t, "internal/version/version.go", cfg.Release.VersionFile) // default preserved
	assert.Equal(t, "read", cfg.Goodreads.Shelf)           // default preserved
}

func TestLoadWalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	toml := `
[goodreads]
shelf = "to-read"
`
	err := os.WriteFile(filepath.Join(root, FileName), []byte(toml), 0o644)
	require.NoError(t, err)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, configPath, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), configPath)
	assert.Equal(t, "to-read", cfg.Goodreads.Shelf)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GOREADS_RELEASE_TOOL", "goversion-ng")

	cfg, _, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "goversion-ng", cfg.Release.Tool)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "empty shelf",
			mutate:  func(c *Config) { c.Goodreads.Shelf = "" },
			wantErr: "goodreads.shelf",
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Goodreads.Timeout = "soon" },
			wantErr: "goodreads.timeout",
		},
		{
			name:    "negative parallelism",
			mutate:  func(c *Config) { c.Goodreads.MaxParallel = -1 },
			wantErr: "max_parallel",
		},
		{
			name:    "empty tool",
			mutate:  func(c *Config) { c.Release.Tool = "" },
			wantErr: "release.tool",
		},
		{
			name:    "empty version file",
			mutate:  func(c *Config) { c.Release.VersionFile = "" },
			wantErr: "release.version_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadInvalidConfigFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	toml := `
[goodreads]
timeout = "whenever"
`
	err := os.WriteFile(filepath.Join(dir, FileName), []byte(toml), 0o644)
	require.NoError(t, err)

	_, _, err = Load(dir)
	assert.Error(t, err)
}
