package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	LLM       LLMConfig
	Retrieval RetrievalConfig
	Ticket    TicketConfig
	Routing   RoutingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	APIPrefix             string
	AllowedOrigins        []string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values for the member directory.
type PostgresConfig struct {
	DSN                string
	MaxConns           int32
	MinConns           int32
	RunMigrations      bool
	ConnMaxIdleSec     int32
	ConnMaxLifeSec     int32
	StatementTimeoutMs int
	ApplicationName    string
}

// RedisConfig holds Redis connection values for the guideline store.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	PoolSize  int
	TimeoutMs int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Format      string
	Development bool
	Service     string
	Version     string
}

// AuthConfig defines how callers prove they hold the shared secret.
// BackendAPIKey may be plain text or a bcrypt hash.
type AuthConfig struct {
	BackendAPIKey string
	JWTSecret     string
}

// LLMConfig selects and tunes the generation backend.
type LLMConfig struct {
	Provider       string
	Model          string
	APIKey         string
	BaseURL        string
	Temperature    float64
	MaxTokens      int
	TimeoutSeconds int
}

// RetrievalConfig tunes guideline retrieval.
type RetrievalConfig struct {
	TopK     int
	SeedPath string
}

// TicketConfig is the completeness policy.
type TicketConfig struct {
	MinTextLength  int
	RequiredFields string
}

// RoutingConfig tunes department routing.
type RoutingConfig struct {
	FallbackDept string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	temperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 3600))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "work-mediator"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			APIPrefix:             getEnv("API_PREFIX", "/api/v1"),
			AllowedOrigins:        getEnvAsList("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080,http://127.0.0.1:8080"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 120),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
			// Identity lookups are single-row reads.
			StatementTimeoutMs: getEnvAsInt("POSTGRES_STATEMENT_TIMEOUT_MS", 5000),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "mediator"),
			PoolSize:  getEnvAsInt("REDIS_POOL_SIZE", 10),
			TimeoutMs: getEnvAsInt("REDIS_TIMEOUT_MS", 2000),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Auth: AuthConfig{
			BackendAPIKey: os.Getenv("BACKEND_API_KEY"),
			JWTSecret:     os.Getenv("AUTH_JWT_SECRET"),
		},
		LLM: LLMConfig{
			Provider:       strings.ToLower(getEnv("LLM_PROVIDER", "ollama")),
			Model:          getEnv("LLM_MODEL", "qwen3:8b"),
			APIKey:         os.Getenv("LLM_API_KEY"),
			BaseURL:        os.Getenv("LLM_BASE_URL"),
			Temperature:    temperature,
			MaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 2048),
			TimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", 60),
		},
		Retrieval: RetrievalConfig{
			TopK:     getEnvAsInt("RETRIEVAL_TOP_K", 5),
			SeedPath: getEnv("RETRIEVAL_SEED_PATH", "data/initial_knowledge.json"),
		},
		Ticket: TicketConfig{
			MinTextLength:  getEnvAsInt("TICKET_MIN_TEXT_LENGTH", 2),
			RequiredFields: os.Getenv("TICKET_REQUIRED_FIELDS"),
		},
		Routing: RoutingConfig{
			FallbackDept: getEnv("ROUTING_FALLBACK_DEPT", "PLANNING"),
		},
	}

	cfg.Postgres.ApplicationName = cfg.App.Name
	cfg.Logger.Service = cfg.App.Name
	cfg.Logger.Version = cfg.App.Version

	if cfg.Auth.BackendAPIKey == "" && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("BACKEND_API_KEY or AUTH_JWT_SECRET must be set")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call generation timeout.
func (l LLMConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
