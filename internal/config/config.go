// Package config loads process configuration from the environment once at
// startup. Nothing is re-read per request.
package config

import (
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ListenAddr string

	// RedisURL selects the durable store when set. Empty means the
	// in-memory fallback (single-process/dev only).
	RedisURL string

	// DatabaseURL enables the finished-session archive when set.
	DatabaseURL string

	// SessionTTLSec is the expiry window for session records and chat
	// lists, refreshed on every activity.
	SessionTTLSec int

	// CodeAttempts bounds session-code generation retries on collision.
	CodeAttempts int

	// AllowedOrigins is the CORS origin allow-list; ["*"] allows any.
	AllowedOrigins []string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:     ":5001",
		SessionTTLSec:  1800,
		CodeAttempts:   10,
		AllowedOrigins: []string{"*"},
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("SESSION_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CODE_ATTEMPTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CodeAttempts = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		var origins []string
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				origins = append(origins, s)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	return cfg, nil
}
