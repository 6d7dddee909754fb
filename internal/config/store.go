package config

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/social-lookup/pkg/cache"
)

// OpenStore builds the record store selected by cfg. The returned close
// function releases backend connections and is never nil.
func OpenStore(ctx context.Context, cfg CacheConfig) (cache.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case BackendMemory, "":
		return cache.NewMemoryStore(), noop, nil

	case BackendLRU:
		return cache.NewLRUStore(cfg.MaxEntries, cfg.TTL), noop, nil

	case BackendRedis, BackendTiered:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}

		shared := cache.NewRedisStore(redisClient, cache.RedisConfig{
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.TTL,
		})
		if cfg.Backend == BackendRedis {
			return shared, redisClient.Close, nil
		}
		// L1 follows the same size and ttl bounds as the lru backend
		return cache.NewTieredStore(cache.NewLRUStore(cfg.MaxEntries, cfg.TTL), shared), redisClient.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
