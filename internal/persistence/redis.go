package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/config"
)

const defaultKeyPrefix = "mediator"

// Redis is the guideline store connection and the namespace its keys
// live under.
type Redis struct {
	Client    *redis.Client
	KeyPrefix string
}

// NewRedis builds the client and pings it once. An unreachable server
// is logged, not fatal: retrieval reports it per request.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	opts := guidelineStoreOptions(cfg)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout+time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("guideline store unreachable", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("guideline store connected",
			zap.String("addr", cfg.Addr),
			zap.Int("db", cfg.DB),
			zap.Int("pool_size", opts.PoolSize))
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Redis{Client: client, KeyPrefix: prefix}
}

func guidelineStoreOptions(cfg config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: 5 * time.Second,
	}
	if cfg.TimeoutMs > 0 {
		timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
		opts.DialTimeout = timeout
		opts.ReadTimeout = timeout
		opts.WriteTimeout = timeout
	}
	return opts
}

func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping is the readiness check for the guideline store.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("guideline store not configured")
	}
	return r.Client.Ping(ctx).Err()
}
