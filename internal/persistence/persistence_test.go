package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/config"
)

func TestMemberPoolConfig(t *testing.T) {
	poolCfg, err := memberPoolConfig(config.PostgresConfig{
		DSN:                "postgres://mediator:pw@localhost:5432/members",
		MaxConns:           4,
		MinConns:           8,
		ConnMaxIdleSec:     30,
		ConnMaxLifeSec:     600,
		StatementTimeoutMs: 1500,
		ApplicationName:    "work-mediator",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(4), poolCfg.MaxConns)
	assert.Equal(t, int32(4), poolCfg.MinConns)
	assert.Equal(t, 30*time.Second, poolCfg.MaxConnIdleTime)
	assert.Equal(t, 10*time.Minute, poolCfg.MaxConnLifetime)
	assert.Equal(t, "members", poolCfg.ConnConfig.Database)
	assert.Equal(t, "1500", poolCfg.ConnConfig.RuntimeParams["statement_timeout"])
	assert.Equal(t, "work-mediator", poolCfg.ConnConfig.RuntimeParams["application_name"])
}

func TestMemberPoolConfigBadDSN(t *testing.T) {
	_, err := memberPoolConfig(config.PostgresConfig{DSN: "postgres://%zz"})
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestPostgresWithoutDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))
	pg.Close()
}

func TestGuidelineStoreOptions(t *testing.T) {
	opts := guidelineStoreOptions(config.RedisConfig{Addr: "cache:6379", DB: 2, PoolSize: 7, TimeoutMs: 250})
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 250*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 250*time.Millisecond, opts.DialTimeout)

	opts = guidelineStoreOptions(config.RedisConfig{Addr: "cache:6379"})
	assert.Equal(t, 5*time.Second, opts.DialTimeout)
	assert.Zero(t, opts.ReadTimeout)
}

func TestNewRedis(t *testing.T) {
	srv := miniredis.RunT(t)
	r := NewRedis(config.RedisConfig{Addr: srv.Addr(), TimeoutMs: 500}, zap.NewNop())
	defer r.Close()

	assert.Equal(t, defaultKeyPrefix, r.KeyPrefix)
	require.NoError(t, r.Ping(context.Background()))

	srv.Close()
	assert.Error(t, r.Ping(context.Background()))
}

func TestRedisNotConfigured(t *testing.T) {
	var r *Redis
	assert.Error(t, r.Ping(context.Background()))
	r.Close()
}
