package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/quicktranslate/internal/domain"
)

// KeyPrefix namespaces result keys in a shared Redis.
const KeyPrefix = "qt:result:"

// Redis is a result cache shared between server instances.
// Any Redis failure reads as a miss; writes are best effort.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewRedis creates a Redis cache over an existing client.
func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{
		client: client,
		ttl:    ttl,
		log:    logger.With("adapter", "resultcache.redis"),
	}
}

// NewRedisClient opens a client for addr. The connection is lazy.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Get returns the result stored under key. Any failure reads as a miss.
func (r *Redis) Get(ctx context.Context, key string) (domain.TranslationResult, bool) {
	raw, err := r.client.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WarnContext(ctx, "redis get failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return domain.TranslationResult{}, false
	}

	var result domain.TranslationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		r.log.WarnContext(ctx, "redis value malformed", slog.String("key", key), slog.String("error", err.Error()))
		return domain.TranslationResult{}, false
	}
	return result, true
}

// Set stores result under key with the cache TTL. Failures are logged and
// otherwise ignored.
func (r *Redis) Set(ctx context.Context, key string, result domain.TranslationResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		r.log.WarnContext(ctx, "marshal result failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := r.client.Set(ctx, KeyPrefix+key, string(raw), r.ttl).Err(); err != nil {
		r.log.WarnContext(ctx, "redis set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Ping checks connectivity for readiness probes.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
