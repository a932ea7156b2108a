package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration derived from environment variables.
type Config struct {
	HTTPPort           string
	DatabaseURL        string
	DBMaxConns         int32
	RedisURL           string
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	DevLoginEnabled    bool
	PublicRateLimitRPS int
	AuthRateLimitRPS   int
	LogLevel           string
	IdempotencyTTL     time.Duration
	CORSAllowedOrigins []string

	MockSeed         int64
	MockUsers        int
	MockTransactions int
	MockKycRequests  int
	MockTickets      int

	LatencyMin         time.Duration
	LatencyMax         time.Duration
	LatencyFailureRate float64

	StatsInterval          time.Duration
	ReferenceCheckInterval time.Duration
}

// UsesPostgres reports whether records live in Postgres rather than memory.
func (c *Config) UsesPostgres() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

// Load reads environment variables using viper and returns a typed config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "port", "PORT", "BROKER_PORT")
	bindEnv(v, "database_url", "DATABASE_URL", "BROKER_DATABASE_URL")
	bindEnv(v, "db_max_conns", "DB_MAX_CONNS", "BROKER_DB_MAX_CONNS")
	bindEnv(v, "redis_url", "REDIS_URL", "BROKER_REDIS_URL")
	bindEnv(v, "jwt_secret", "JWT_SECRET", "BROKER_JWT_SECRET")
	bindEnv(v, "jwt_issuer", "JWT_ISSUER", "BROKER_JWT_ISSUER")
	bindEnv(v, "jwt_audience", "JWT_AUDIENCE", "BROKER_JWT_AUDIENCE")
	bindEnv(v, "dev_login_enabled", "DEV_LOGIN_ENABLED", "BROKER_DEV_LOGIN_ENABLED")
	bindEnv(v, "public_rate_limit_rps", "PUBLIC_RATE_LIMIT_RPS", "BROKER_PUBLIC_RATE_LIMIT_RPS")
	bindEnv(v, "auth_rate_limit_rps", "AUTH_RATE_LIMIT_RPS", "BROKER_AUTH_RATE_LIMIT_RPS")
	bindEnv(v, "log_level", "LOG_LEVEL", "BROKER_LOG_LEVEL")
	bindEnv(v, "idempotency_ttl", "IDEMPOTENCY_TTL", "BROKER_IDEMPOTENCY_TTL")
	bindEnv(v, "cors_allowed_origins", "CORS_ALLOWED_ORIGINS", "BROKER_CORS_ALLOWED_ORIGINS")
	bindEnv(v, "mock_seed", "MOCK_SEED", "BROKER_MOCK_SEED")
	bindEnv(v, "mock_users", "MOCK_USERS", "BROKER_MOCK_USERS")
	bindEnv(v, "mock_transactions", "MOCK_TRANSACTIONS", "BROKER_MOCK_TRANSACTIONS")
	bindEnv(v, "mock_kyc_requests", "MOCK_KYC_REQUESTS", "BROKER_MOCK_KYC_REQUESTS")
	bindEnv(v, "mock_tickets", "MOCK_TICKETS", "BROKER_MOCK_TICKETS")
	bindEnv(v, "latency_min", "LATENCY_MIN", "BROKER_LATENCY_MIN")
	bindEnv(v, "latency_max", "LATENCY_MAX", "BROKER_LATENCY_MAX")
	bindEnv(v, "latency_failure_rate", "LATENCY_FAILURE_RATE", "BROKER_LATENCY_FAILURE_RATE")
	bindEnv(v, "stats_interval", "STATS_INTERVAL", "BROKER_STATS_INTERVAL")
	bindEnv(v, "reference_check_interval", "REFERENCE_CHECK_INTERVAL", "BROKER_REFERENCE_CHECK_INTERVAL")

	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("db_max_conns", 10)
	v.SetDefault("redis_url", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_issuer", "brokerage-admin")
	v.SetDefault("jwt_audience", "brokerage-admin-api")
	v.SetDefault("dev_login_enabled", false)
	v.SetDefault("public_rate_limit_rps", 10)
	v.SetDefault("auth_rate_limit_rps", 100)
	v.SetDefault("log_level", "info")
	v.SetDefault("idempotency_ttl", "24h")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000")
	v.SetDefault("mock_seed", 0)
	v.SetDefault("mock_users", 50)
	v.SetDefault("mock_transactions", 100)
	v.SetDefault("mock_kyc_requests", 40)
	v.SetDefault("mock_tickets", 40)
	v.SetDefault("latency_min", "200ms")
	v.SetDefault("latency_max", "800ms")
	v.SetDefault("latency_failure_rate", 0)
	v.SetDefault("stats_interval", "30s")
	v.SetDefault("reference_check_interval", "5m")

	durations := map[string]*time.Duration{}
	cfg := &Config{
		HTTPPort:           v.GetString("port"),
		DatabaseURL:        v.GetString("database_url"),
		DBMaxConns:         v.GetInt32("db_max_conns"),
		RedisURL:           v.GetString("redis_url"),
		JWTSecret:          v.GetString("jwt_secret"),
		JWTIssuer:          v.GetString("jwt_issuer"),
		JWTAudience:        v.GetString("jwt_audience"),
		DevLoginEnabled:    v.GetBool("dev_login_enabled"),
		PublicRateLimitRPS: max(v.GetInt("public_rate_limit_rps"), 1),
		AuthRateLimitRPS:   max(v.GetInt("auth_rate_limit_rps"), 1),
		LogLevel:           v.GetString("log_level"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		MockSeed:           v.GetInt64("mock_seed"),
		MockUsers:          v.GetInt("mock_users"),
		MockTransactions:   v.GetInt("mock_transactions"),
		MockKycRequests:    v.GetInt("mock_kyc_requests"),
		MockTickets:        v.GetInt("mock_tickets"),
		LatencyFailureRate: v.GetFloat64("latency_failure_rate"),
	}
	durations["IDEMPOTENCY_TTL"] = &cfg.IdempotencyTTL
	durations["LATENCY_MIN"] = &cfg.LatencyMin
	durations["LATENCY_MAX"] = &cfg.LatencyMax
	durations["STATS_INTERVAL"] = &cfg.StatsInterval
	durations["REFERENCE_CHECK_INTERVAL"] = &cfg.ReferenceCheckInterval
	for name, dst := range durations {
		d, err := time.ParseDuration(v.GetString(strings.ToLower(name)))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if strings.TrimSpace(c.JWTIssuer) == "" {
		return fmt.Errorf("JWT_ISSUER is required")
	}
	if strings.TrimSpace(c.JWTAudience) == "" {
		return fmt.Errorf("JWT_AUDIENCE is required")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.MockUsers <= 0 || c.MockTransactions <= 0 || c.MockKycRequests <= 0 || c.MockTickets <= 0 {
		return fmt.Errorf("MOCK_* counts must be positive")
	}
	if c.LatencyMin < 0 || c.LatencyMax < c.LatencyMin {
		return fmt.Errorf("LATENCY_MAX must be at least LATENCY_MIN")
	}
	if c.LatencyFailureRate < 0 || c.LatencyFailureRate > 1 {
		return fmt.Errorf("LATENCY_FAILURE_RATE must be between 0 and 1")
	}
	if c.StatsInterval <= 0 || c.ReferenceCheckInterval <= 0 {
		return fmt.Errorf("worker intervals must be positive")
	}
	return nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
