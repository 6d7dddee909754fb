package config

import (
	"errors"
	"fmt"

	"github.com/Sternrassler/social-lookup/pkg/logging"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr is required"))
	}
	if c.Server.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.request_timeout must be >= 0 (got %s)", c.Server.RequestTimeout))
	}

	if c.API.UserAgent == "" {
		errs = append(errs, fmt.Errorf("api.user_agent is required"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be >= 0 (got %s)", c.API.Timeout))
	}
	if c.API.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("api.max_retries must be >= 0 (got %d)", c.API.MaxRetries))
	}

	if err := c.EngineConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("lookup: %w", err))
	}

	switch c.Cache.Backend {
	case BackendMemory, BackendLRU:
	case BackendRedis, BackendTiered:
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("cache.redis.addr is required for backend %q", c.Cache.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be one of memory, lru, redis, tiered (got %q)", c.Cache.Backend))
	}
	if c.Cache.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("cache.max_entries must be >= 0 (got %d)", c.Cache.MaxEntries))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be >= 0 (got %s)", c.Cache.TTL))
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}
