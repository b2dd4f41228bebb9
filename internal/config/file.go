package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// File config identity
const (
	AppDirName   = "bulk-downloader"
	ConfigName   = "config"
	ConfigType   = "yaml"
	EnvPrefix    = "BULKDL"
	DefaultLevel = "info"
)

// Config holds settings that are read once at startup from config.yaml and
// BULKDL_* environment variables.
type Config struct {
	YTDLP   YTDLPConfig   `mapstructure:"ytdlp"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// YTDLPConfig configures the yt-dlp binary
type YTDLPConfig struct {
	Path         string        `mapstructure:"path"`                                 // empty means PATH lookup
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"gte=1s,lte=1h"` // playlist metadata fetch
}

// HistoryConfig configures the download history database
type HistoryConfig struct {
	Path string `mapstructure:"path"` // empty means no persistence
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file" validate:"required"`
	Level string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir := defaultDataDir()
	return &Config{
		YTDLP: YTDLPConfig{
			FetchTimeout: 60 * time.Second,
		},
		History: HistoryConfig{
			Path: filepath.Join(dataDir, "history.db"),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(dataDir, "bulk-downloader.log"),
			Level: DefaultLevel,
		},
	}
}

// defaultConfigDir returns the directory searched for config.yaml
func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", AppDirName)
	}
	return filepath.Join(dir, AppDirName)
}

// defaultDataDir returns the directory for the log file and history
func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, AppDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", AppDirName)
}

// LoadConfig loads configuration from file and environment. An explicit
// path must exist; without one config.yaml is looked up in the user config
// directory and the working directory, and a missing file means defaults.
func LoadConfig(path string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("ytdlp.path", defaults.YTDLP.Path)
	v.SetDefault("ytdlp.fetch_timeout", defaults.YTDLP.FetchTimeout)
	v.SetDefault("history.path", defaults.History.Path)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.level", defaults.Logging.Level)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType(ConfigType)
		v.AddConfigPath(defaultConfigDir())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. BULKDL_LOGGING_LEVEL
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Logging.Level = normalizeLevel(cfg.Logging.Level)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetLogLevel overrides the logging level, accepting any letter case and
// surrounding spaces. The config is left unchanged when level is invalid.
func (c *Config) SetLogLevel(level string) error {
	prev := c.Logging.Level
	c.Logging.Level = normalizeLevel(level)
	if err := c.Validate(); err != nil {
		c.Logging.Level = prev
		return err
	}
	return nil
}

func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
