package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.App.Addr())
	assert.Equal(t, "/api/v1", cfg.App.APIPrefix)
	assert.Equal(t, 120*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "qwen3:8b", cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout())
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 2, cfg.Ticket.MinTextLength)
	assert.Equal(t, "PLANNING", cfg.Routing.FallbackDept)
	assert.Equal(t, "mediator", cfg.Redis.KeyPrefix)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 5000, cfg.Postgres.StatementTimeoutMs)
	assert.Equal(t, "work-mediator", cfg.Postgres.ApplicationName)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 2000, cfg.Redis.TimeoutMs)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "jwt")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("LLM_TEMPERATURE", "0.3")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("RETRIEVAL_TOP_K", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, 5, cfg.Retrieval.TopK)
}

func TestLoadRequiresSharedSecret(t *testing.T) {
	t.Setenv("BACKEND_API_KEY", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("BACKEND_API_KEY", "secret")
	t.Setenv("REDIS_DB", "two")
	_, err := Load()
	require.Error(t, err)
}
