package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/social-lookup/pkg/logging"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

// RedisConfig holds RedisStore settings.
type RedisConfig struct {
	// KeyPrefix namespaces keys (default: DefaultKeyPrefix)
	KeyPrefix string

	// TTL bounds the lifetime of each record; 0 keeps records forever
	TTL time.Duration
}

// RedisStore shares user records between processes through Redis.
type RedisStore struct {
	redis  *redis.Client
	config RedisConfig
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(redisClient *redis.Client, cfg RedisConfig) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, ":")
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.TTL < 0 {
		cfg.TTL = 0
	}
	return &RedisStore{
		redis:  redisClient,
		config: cfg,
		logger: logging.NewLogger("cache").With().Str("layer", LayerRedis).Logger(),
	}
}

func (s *RedisStore) key(id users.ID) string {
	return CacheKey{Prefix: s.config.KeyPrefix, ID: id}.String()
}

// Contains reports whether id is cached. Redis failures read as a miss.
func (s *RedisStore) Contains(ctx context.Context, id users.ID) bool {
	n, err := s.redis.Exists(ctx, s.key(id)).Result()
	if err != nil {
		CacheErrors.WithLabelValues(LayerRedis, "contains").Inc()
		s.logger.Warn().Err(err).Uint64("user_id", uint64(id)).Msg("Cache exists error")
		return false
	}
	observe(LayerRedis, n > 0)
	return n > 0
}

// Get returns the record cached for id. Redis failures and undecodable
// entries read as a miss.
func (s *RedisStore) Get(ctx context.Context, id users.ID) (users.User, bool) {
	entry, err := s.get(ctx, id)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			CacheErrors.WithLabelValues(LayerRedis, "get").Inc()
			s.logger.Warn().Err(err).Uint64("user_id", uint64(id)).Msg("Cache get error")
		}
		return users.User{}, false
	}
	return entry.User, true
}

func (s *RedisStore) get(ctx context.Context, id users.ID) (*CacheEntry, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		return nil, err
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if entry.User.ID != id {
		return nil, fmt.Errorf("%w: stored id %d under key %d", ErrInvalidEntry, entry.User.ID, id)
	}
	// Redis expires keys itself; this only guards clock skew between writers.
	if entry.IsExpired() {
		return nil, redis.Nil
	}
	return &entry, nil
}

// Put stores user under id with the configured TTL. Failures are logged.
func (s *RedisStore) Put(ctx context.Context, id users.ID, user users.User) {
	if err := checkKey(LayerRedis, id, user); err != nil {
		s.logger.Warn().Err(err).Uint64("key", uint64(id)).Uint64("user_id", uint64(user.ID)).Msg("Rejected cache write")
		return
	}
	if err := s.set(ctx, id, NewCacheEntry(user, s.config.TTL)); err != nil {
		CacheErrors.WithLabelValues(LayerRedis, "put").Inc()
		s.logger.Warn().Err(err).Uint64("user_id", uint64(id)).Msg("Cache put error")
		return
	}
	CacheWrites.WithLabelValues(LayerRedis).Inc()
}

func (s *RedisStore) set(ctx context.Context, id users.ID, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(id), data, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Len counts the records under the configured prefix. It walks the keyspace
// with SCAN and is meant for diagnostics, not hot paths.
func (s *RedisStore) Len(ctx context.Context) int {
	var count int
	iter := s.redis.Scan(ctx, 0, s.config.KeyPrefix+":*", 1000).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		CacheErrors.WithLabelValues(LayerRedis, "len").Inc()
		s.logger.Warn().Err(err).Msg("Cache scan error")
	}
	return count
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
