package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret signs sessions when JWT_SECRET is unset. It exists for local
// development only; production deployments must configure their own secret.
const DevJWTSecret = "your-secret-key"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
}

type AppConfig struct {
	Env         string
	HTTPPort    string
	Timezone    string
	CORSOrigins []string
}

type AuthConfig struct {
	JWTSecret string
	// SecretFromEnv is false when JWTSecret fell back to DevJWTSecret.
	SecretFromEnv bool
}

type DatabaseConfig struct {
	Driver          string
	PrimaryDSN      string
	ReplicaDSNs     []string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CacheConfig struct {
	L1Capacity int
	L2TTL      time.Duration
}

type LogConfig struct {
	Level  string
	Colors bool
}

// IsProduction reports whether cookies must carry the Secure attribute.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Location resolves the attendance timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

func Load() (*Config, error) {
	// Load .env if it exists (local dev), ignore if not
	_ = godotenv.Load()

	secret := getEnv("JWT_SECRET", "")
	secretFromEnv := secret != ""
	if !secretFromEnv {
		secret = DevJWTSecret
	}

	cfg := &Config{
		App: AppConfig{
			Env:         getEnv("APP_ENV", "development"),
			HTTPPort:    getEnv("HTTP_PORT", "8080"),
			Timezone:    getEnv("ATTENDANCE_TIMEZONE", "Asia/Jakarta"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS"),
		},
		Auth: AuthConfig{
			JWTSecret:     secret,
			SecretFromEnv: secretFromEnv,
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
			PrimaryDSN: getEnv("DB_PRIMARY_DSN", ""),
			ReplicaDSNs: nonEmpty(
				getEnv("DB_REPLICA1_DSN", ""),
				getEnv("DB_REPLICA2_DSN", ""),
				getEnv("DB_REPLICA3_DSN", ""),
			),
			MaxConns:        int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("DB_MIN_CONNS", 2)),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			L1Capacity: getEnvAsInt("CACHE_L1_CAPACITY", 1000),
			L2TTL:      getEnvAsDuration("CACHE_L2_TTL", 10*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "INFO"),
			Colors: getEnvAsBool("LOG_COLORS", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.PrimaryDSN == "" {
			return fmt.Errorf("DB_PRIMARY_DSN is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Database.Driver)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Cache.L1Capacity <= 0 {
		return fmt.Errorf("CACHE_L1_CAPACITY must be positive, got %d", c.Cache.L1Capacity)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimRight(strings.TrimSpace(part), "/"); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
