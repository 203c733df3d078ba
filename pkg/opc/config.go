package opc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/spf13/viper"

	"github.com/benjaminschreck/go-msoffice-shared/internal/logging"
)

// EnvPrefix prefixes every environment variable read by ConfigFromEnvironment.
const EnvPrefix = "OOXML"

// Config contains the options that control how packages are read and written.
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `mapstructure:"log_level"`
	// StrictMode rejects parts without a content type and fails schema parsing on the
	// first problem. When off both are tolerated and logged.
	StrictMode bool `mapstructure:"strict_mode"`
	// CompressionLevel is the deflate level used when writing parts, 0 to 9 or -1.
	CompressionLevel int `mapstructure:"compression_level"`
	// MaxPartSize caps the bytes read when a single part is materialized.
	MaxPartSize int64 `mapstructure:"max_part_size"`
	// GlobCacheSize is the number of compiled FindParts patterns kept.
	GlobCacheSize int `mapstructure:"glob_cache_size"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
		logging.SetLevel(globalConfig.LogLevel)
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:         "info",
		StrictMode:       true,
		CompressionLevel: flate.DefaultCompression,
		MaxPartSize:      512 << 20,
		GlobCacheSize:    128,
	}
}

// ConfigFromEnvironment reads OOXML_LOG_LEVEL, OOXML_STRICT_MODE,
// OOXML_COMPRESSION_LEVEL, OOXML_MAX_PART_SIZE and OOXML_GLOB_CACHE_SIZE on top of
// the defaults. Values that fail to parse leave the defaults in place.
func ConfigFromEnvironment() *Config {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("strict_mode", defaults.StrictMode)
	v.SetDefault("compression_level", defaults.CompressionLevel)
	v.SetDefault("max_part_size", defaults.MaxPartSize)
	v.SetDefault("glob_cache_size", defaults.GlobCacheSize)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logging.Warn("ignoring invalid environment configuration", "err", err)
		return defaults
	}
	if err := cfg.Validate(); err != nil {
		logging.Warn("ignoring invalid environment configuration", "err", err)
		return defaults
	}
	return &cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.LogLevel) {
		return errors.New("invalid log level: " + c.LogLevel)
	}
	if c.CompressionLevel < flate.HuffmanOnly || c.CompressionLevel > flate.BestCompression {
		return fmt.Errorf("compression level %d out of range", c.CompressionLevel)
	}
	if c.MaxPartSize <= 0 {
		return errors.New("max part size must be positive")
	}
	if c.GlobCacheSize <= 0 {
		return errors.New("glob cache size must be positive")
	}
	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig replaces the global configuration and applies its log level.
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	logging.SetLevel(config.LogLevel)
}

// Option adjusts the configuration of a single package.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg *Config) Option {
	return func(c *Config) {
		*c = *cfg
	}
}

func WithStrict(strict bool) Option {
	return func(c *Config) {
		c.StrictMode = strict
	}
}

func WithCompressionLevel(level int) Option {
	return func(c *Config) {
		c.CompressionLevel = level
	}
}

func WithMaxPartSize(n int64) Option {
	return func(c *Config) {
		c.MaxPartSize = n
	}
}

func newConfig(opts []Option) (*Config, error) {
	cfg := GetGlobalConfig()
	for _, o := range opts {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("opc: %w", err)
	}
	return cfg, nil
}
