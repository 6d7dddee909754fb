// Package config loads service configuration from an optional file and
// LOOKUP_* environment variables using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sternrassler/social-lookup/pkg/client"
	"github.com/Sternrassler/social-lookup/pkg/logging"
	"github.com/Sternrassler/social-lookup/pkg/lookup"
)

// EnvPrefix prefixes every environment override, e.g. LOOKUP_CACHE_BACKEND.
const EnvPrefix = "LOOKUP"

// Cache backends.
const (
	BackendMemory = "memory"
	BackendLRU    = "lru"
	BackendRedis  = "redis"
	BackendTiered = "tiered"
)

// Config represents the complete service configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Lookup  LookupConfig  `mapstructure:"lookup" yaml:"lookup"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig holds HTTP host settings.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// APIConfig holds remote users API settings.
type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// LookupConfig holds batching settings.
type LookupConfig struct {
	BatchSize      int           `mapstructure:"batch_size" yaml:"batch_size"`
	MaxConcurrency int           `mapstructure:"max_concurrency" yaml:"max_concurrency"`
	BatchTimeout   time.Duration `mapstructure:"batch_timeout" yaml:"batch_timeout"`
}

// CacheConfig selects and sizes the record store.
type CacheConfig struct {
	Backend    string        `mapstructure:"backend" yaml:"backend"`
	MaxEntries int           `mapstructure:"max_entries" yaml:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Redis      RedisConfig   `mapstructure:"redis" yaml:"redis"`
}

// RedisConfig holds the connection settings of the redis and tiered backends.
type RedisConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr"`
	Password  string `mapstructure:"password" yaml:"password"`
	DB        int    `mapstructure:"db" yaml:"db"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// Load reads configuration from path (optional) and the environment.
// Environment variables win over the file, the file wins over defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// EngineConfig returns the lookup engine settings.
func (c *Config) EngineConfig() lookup.Config {
	return lookup.Config{
		BatchSize:      c.Lookup.BatchSize,
		MaxConcurrency: c.Lookup.MaxConcurrency,
		BatchTimeout:   c.Lookup.BatchTimeout,
	}
}

// ClientConfig returns the users API client settings.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:    c.API.BaseURL,
		UserAgent:  c.API.UserAgent,
		Timeout:    c.API.Timeout,
		MaxRetries: c.API.MaxRetries,
	}
}

// LoggerConfig returns the logger settings. Level must already be valid.
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Logging.Level); err == nil {
		cfg.Level = level
	}
	cfg.Pretty = c.Logging.Pretty
	return cfg
}

func normalize(cfg *Config) {
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
}
