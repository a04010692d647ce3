package server

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/matzehuels/codexray/pkg/session"
)

// Environment variables read by LoadConfig.
const (
	EnvAddr          = "CODEXRAY_ADDR"
	EnvRedisAddr     = "CODEXRAY_REDIS_ADDR"
	EnvRedisPassword = "CODEXRAY_REDIS_PASSWORD"
	EnvSessionLimit  = "CODEXRAY_SESSION_LIMIT"
	EnvSessionTTL    = "CODEXRAY_SESSION_TTL"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

// Config holds the server settings.
type Config struct {
	Addr          string
	RedisAddr     string // empty disables the shared artifact cache
	RedisPassword string
	SessionLimit  int
	SessionTTL    time.Duration
}

// LoadConfig reads the configuration from the environment, after loading
// envFiles (default ".env") if present. Variables already set in the
// environment win over the files.
func LoadConfig(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)

	cfg := Config{
		Addr:          firstNonEmpty(strings.TrimSpace(os.Getenv(EnvAddr)), DefaultAddr),
		RedisAddr:     strings.TrimSpace(os.Getenv(EnvRedisAddr)),
		RedisPassword: os.Getenv(EnvRedisPassword),
		SessionLimit:  session.DefaultLimit,
		SessionTTL:    session.DefaultTTL,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvSessionLimit))); err == nil && n > 0 {
		cfg.SessionLimit = n
	}
	if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(EnvSessionTTL))); err == nil && d > 0 {
		cfg.SessionTTL = d
	}
	if !strings.Contains(cfg.Addr, ":") {
		cfg.Addr = ":" + cfg.Addr
	}
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
