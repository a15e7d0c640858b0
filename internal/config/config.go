package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/dashboard"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	Store     string
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Dashboard DashboardConfig
	Log       LogConfig
	WebDir    string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// DatabaseConfig holds PostgreSQL connection settings. Only used when
// Store is "postgres".
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
	Seed     bool
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis
// and board events stay in-process.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret string //nolint:gosec // G117: JWT signing secret config
	TTL    time.Duration
}

// AuthConfig holds login behaviour.
type AuthConfig struct {
	LoginDelay time.Duration
}

// RateLimitConfig applies to authenticated routes per tenant and to login per IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// DashboardConfig selects live or demo weekly completion numbers.
type DashboardConfig struct {
	Weekly dashboard.WeeklyMode
}

// LogConfig controls the zerolog global logger.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// the JWT secret must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("NEXUS_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("NEXUS_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbSeed, err := getEnvBool("NEXUS_DB_SEED", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("NEXUS_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	jwtTTL, err := getEnvDuration("NEXUS_JWT_TTL", 12*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	loginDelay, err := getEnvDuration("NEXUS_AUTH_LOGIN_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("NEXUS_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("NEXUS_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rps, err := getEnvFloat("NEXUS_RATE_LIMIT_RPS", 20)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	burst, err := getEnvInt("NEXUS_RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	weekly, err := dashboard.ParseWeeklyMode(getEnv("NEXUS_DASHBOARD_WEEKLY", string(dashboard.WeeklyLive)))
	if err != nil {
		return nil, fmt.Errorf("config.Load: NEXUS_DASHBOARD_WEEKLY: %w", err)
	}

	corsOrigins := getEnvList("NEXUS_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Server: ServerConfig{
			Addr:         getEnv("NEXUS_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Store: getEnv("NEXUS_STORE", StoreMemory),
		Database: DatabaseConfig{
			Host:     getEnv("NEXUS_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("NEXUS_DB_USER", "nexus"),
			Password: getEnv("NEXUS_DB_PASSWORD", ""),
			DBName:   getEnv("NEXUS_DB_NAME", "nexus_dev"),
			SSLMode:  getEnv("NEXUS_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
			Seed:     dbSeed,
		},
		Redis: RedisConfig{
			Addr:     getEnv("NEXUS_REDIS_ADDR", ""),
			Password: getEnv("NEXUS_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("NEXUS_JWT_SECRET", ""),
			TTL:    jwtTTL,
		},
		Auth: AuthConfig{
			LoginDelay: loginDelay,
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
		Dashboard: DashboardConfig{
			Weekly: weekly,
		},
		Log: LogConfig{
			Level:  getEnv("NEXUS_LOG_LEVEL", "info"),
			Format: getEnv("NEXUS_LOG_FORMAT", "json"),
		},
		WebDir: getEnv("NEXUS_WEB_DIR", ""),
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("NEXUS_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("NEXUS_JWT_SECRET must be at least 32 characters")
	}

	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.Database.SSLMode == "disable" {
			log.Warn().Msg("NEXUS_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("NEXUS_DB_PORT must be 1-65535, got %d", c.Database.Port)
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("NEXUS_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
		}
	default:
		return fmt.Errorf("NEXUS_STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store)
	}

	// Bounds checks.
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("NEXUS_JWT_TTL must be positive, got %s", c.JWT.TTL)
	}
	if c.Auth.LoginDelay < 0 {
		return fmt.Errorf("NEXUS_AUTH_LOGIN_DELAY must not be negative, got %s", c.Auth.LoginDelay)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("NEXUS_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("NEXUS_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("NEXUS_RATE_LIMIT_RPS must be positive, got %g", c.RateLimit.RPS)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("NEXUS_RATE_LIMIT_BURST must be >= 1, got %d", c.RateLimit.Burst)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("NEXUS_LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
