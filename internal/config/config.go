package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	FileName  = ".goreads.toml"
	EnvPrefix = "GOREADS"
)

// Config is the full goreads configuration.
type Config struct {
	Goodreads GoodreadsConfig `mapstructure:"goodreads"`
	Release   ReleaseConfig   `mapstructure:"release"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// GoodreadsConfig controls shelf fetching.
// Timeout is stored as a string (e.g. "10s") for Viper compatibility.
type GoodreadsConfig struct {
	Shelf       string `mapstructure:"shelf"`
	Timeout     string `mapstructure:"timeout"`
	MaxParallel int    `mapstructure:"max_parallel"`
}

// ReleaseConfig names the external version bumper and its target file.
// Both are passed through to the tool untouched; goreads never inspects
// the target file itself.
type ReleaseConfig struct {
	Tool        string `mapstructure:"tool"`
	VersionFile string `mapstructure:"version_file"`
}

// CacheConfig controls the local snapshot database.
// An empty path means the default under the user config directory.
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// TimeoutDuration returns the parsed fetch timeout.
func (gc *GoodreadsConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(gc.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid goodreads.timeout %q: %w", gc.Timeout, err)
	}
	return d, nil
}

// Defaults returns a Config with all default values.
func Defaults() Config {
	return Config{
		Goodreads: GoodreadsConfig{
			Shelf:   "read",
			Timeout: "10s",
		},
		Release: ReleaseConfig{
			Tool:        "goversion",
			VersionFile: "internal/version/version.go",
		},
	}
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Goodreads.Shelf == "" {
		return fmt.Errorf("goodreads.shelf must not be empty")
	}
	if c.Goodreads.Timeout != "" {
		if _, err := c.Goodreads.TimeoutDuration(); err != nil {
			return err
		}
	}
	if c.Goodreads.MaxParallel < 0 {
		return fmt.Errorf("goodreads.max_parallel must not be negative")
	}
	if c.Release.Tool == "" {
		return fmt.Errorf("release.tool must not be empty")
	}
	if c.Release.VersionFile == "" {
		return fmt.Errorf("release.version_file must not be empty")
	}
	return nil
}

// Load reads configuration from .goreads.toml (discovered by walking up
// from startDir), environment variables (GOREADS_*), and applies defaults.
// CLI flag overrides should be applied by the caller after Load returns.
func Load(startDir string) (Config, string, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setViperDefaults(v, cfg)

	configPath := FindConfig(startDir)
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, "", fmt.Errorf("reading %s: %w", configPath, err)
		}
	}

	decoderOpt := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToBasicTypeHookFunc(),
	))
	if err := v.Unmarshal(&cfg, decoderOpt); err != nil {
		return Config{}, "", fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}

	return cfg, configPath, nil
}

// FindConfig walks up from startDir looking for .goreads.toml.
// Returns the path if found, empty string otherwise.
func FindConfig(startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func setViperDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("goodreads.shelf", cfg.Goodreads.Shelf)
	v.SetDefault("goodreads.timeout", cfg.Goodreads.Timeout)
	v.SetDefault("goodreads.max_parallel", cfg.Goodreads.MaxParallel)
	v.SetDefault("release.tool", cfg.Release.Tool)
	v.SetDefault("release.version_file", cfg.Release.VersionFile)
	v.SetDefault("cache.path", cfg.Cache.Path)
}
