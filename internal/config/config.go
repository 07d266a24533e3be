package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go-shop-ledger/pkg/logger"
)

const defaultJWTSecret = "your-super-secret-key-change-in-production"

type Config struct {
	Port           string
	DatabaseDSN    string
	JWTSecret      string
	TokenTTL       time.Duration
	CORSOrigins    string
	RedisAddr      string
	RedisPassword  string
	ReportCacheTTL time.Duration
	LogLevel       string
	DBLogLevel     string
}

// Load reads the configuration from the environment. Call godotenv.Load
// before it so a local .env file is honoured.
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "3000"),
		DatabaseDSN:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       getDuration("TOKEN_TTL", 24*time.Hour),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		ReportCacheTTL: getDuration("REPORT_CACHE_TTL", time.Minute),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBLogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
	}

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "shop"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_SSLMODE", "disable"),
			getEnv("DB_TIMEZONE", "UTC"),
		)
	}

	log := logger.Get()
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, using the development default")
		cfg.JWTSecret = defaultJWTSecret
		os.Setenv("JWT_SECRET", cfg.JWTSecret)
	} else if len(cfg.JWTSecret) < 32 {
		log.Warn("JWT_SECRET is shorter than 32 characters")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getDuration accepts Go durations ("90s") or a plain number of seconds.
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	logger.Get().WithField("key", key).Warnf("invalid duration %q, using %s", v, def)
	return def
}
