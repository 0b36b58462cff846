// Package config resolves agenthub settings from defaults, an optional YAML
// file, AGENTHUB_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jief123/agenthub/internal/logging"
)

// EnvPrefix prefixes every environment variable, e.g. AGENTHUB_DATA_DIR.
const EnvPrefix = "AGENTHUB"

// Keys.
const (
	KeyConfigFile       = "config"
	KeyDataDir          = "data_dir"
	KeyDefaultTool      = "default_tool"
	KeyOwner            = "owner"
	KeyGitCloneTimeout  = "git.clone_timeout"
	KeyGitMaxConcurrent = "git.max_concurrent"
	KeyLogLevel         = "log.level"
	KeyLogFormat        = "log.format"
	KeySyncEnabled      = "sync.enabled"
	KeySyncInterval     = "sync.interval"
)

const appName = "agenthub"

// Config is the resolved configuration.
type Config struct {
	DataDir     string
	DefaultTool string
	Owner       string
	Git         GitConfig
	Log         LogConfig
	Sync        SyncConfig
}

// GitConfig bounds clone operations.
type GitConfig struct {
	CloneTimeout  time.Duration
	MaxConcurrent int
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string
	Format string
}

// SyncConfig drives the background source sync.
type SyncConfig struct {
	Enabled  bool
	Interval time.Duration
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataDir, filepath.Join(xdg.DataHome, appName))
	v.SetDefault(KeyDefaultTool, "kiro")
	v.SetDefault(KeyOwner, "")
	v.SetDefault(KeyGitCloneTimeout, 60*time.Second)
	v.SetDefault(KeyGitMaxConcurrent, 5)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeySyncEnabled, false)
	v.SetDefault(KeySyncInterval, 24*time.Hour)
}

// DefaultConfigDir is where config.yaml is looked up when no file is named.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// Load reads the config file, if any, and returns the validated settings.
// A file named by the config key must exist; the default file is optional.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := &Config{
		DataDir:     v.GetString(KeyDataDir),
		DefaultTool: v.GetString(KeyDefaultTool),
		Owner:       v.GetString(KeyOwner),
		Git: GitConfig{
			CloneTimeout:  v.GetDuration(KeyGitCloneTimeout),
			MaxConcurrent: v.GetInt(KeyGitMaxConcurrent),
		},
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Sync: SyncConfig{
			Enabled:  v.GetBool(KeySyncEnabled),
			Interval: v.GetDuration(KeySyncInterval),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%s is required", KeyDataDir)
	}
	if c.DefaultTool == "" {
		return fmt.Errorf("%s is required", KeyDefaultTool)
	}
	if c.Git.CloneTimeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyGitCloneTimeout, c.Git.CloneTimeout)
	}
	if c.Git.MaxConcurrent < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyGitMaxConcurrent, c.Git.MaxConcurrent)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeySyncInterval, c.Sync.Interval)
	}
	return nil
}
