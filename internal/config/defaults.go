package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/Sternrassler/social-lookup/pkg/cache"
	"github.com/Sternrassler/social-lookup/pkg/client"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

// DefaultUserAgent identifies the service to the users API.
const DefaultUserAgent = "social-lookup/0.1.0"

// setDefaults registers a default for every key so environment overrides
// reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.request_timeout", 30*time.Second)

	v.SetDefault("api.base_url", client.DefaultBaseURL)
	v.SetDefault("api.user_agent", DefaultUserAgent)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.max_retries", 3)

	v.SetDefault("lookup.batch_size", users.MaxBatchSize)
	v.SetDefault("lookup.max_concurrency", 0)
	v.SetDefault("lookup.batch_timeout", 15*time.Second)

	v.SetDefault("cache.backend", BackendMemory)
	v.SetDefault("cache.max_entries", 100000)
	v.SetDefault("cache.ttl", time.Duration(0))
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.key_prefix", cache.DefaultKeyPrefix)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
}

// DefaultConfig returns the configuration Load yields with no file and no
// environment overrides.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}
