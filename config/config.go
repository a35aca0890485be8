package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Risk     RiskConfig
	ML       MLConfig
	Jobs     JobsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// RiskConfig carries the escalation policy. Escalation assignment is
// deliberately restricted to a single identity rather than a role; see the
// risk handlers.
type RiskConfig struct {
	SuperAdminEmail string
}

// MLConfig points at the external black-box risk predictor.
type MLConfig struct {
	PredictorURL string
	Timeout      time.Duration
}

// JobsConfig drives the cron schedule for the overdue sweep and reminder
// runs.
type JobsConfig struct {
	Enabled   bool
	SweepSpec string
	GraceDays int
}

func Load() *Config {
	// Missing .env is fine: everything has a default or comes from the
	// environment directly.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8080"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("MYSQL_DSN", "hyvai:hyvai@tcp(localhost:3306)/hyvai?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getint("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getint("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET", "change-me-in-production"),
			Expiry: getduration("JWT_EXPIRY", 24*time.Hour),
			Issuer: "hyvai",
		},
		Risk: RiskConfig{
			SuperAdminEmail: getenv("SUPER_ADMIN_EMAIL", "destin@gmail.com"),
		},
		ML: MLConfig{
			PredictorURL: getenv("ML_PREDICTOR_URL", "http://localhost:8000"),
			Timeout:      getduration("ML_TIMEOUT", 15*time.Second),
		},
		Jobs: JobsConfig{
			Enabled:   getenv("JOBS_ENABLED", "true") == "true",
			SweepSpec: getenv("JOBS_SWEEP_SPEC", "0 2 * * *"),
			GraceDays: getint("JOBS_GRACE_DAYS", 3),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
