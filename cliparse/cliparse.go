// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DevSecret is used when POLL_HASH_SECRET is unset outside production.
// Tokens and hashes derived from it are not confidential.
const DevSecret = "dev-only-poll-secret-change-me"

const (
	defaultPort          = 3318
	defaultSQLitePath    = "quickly-pick-rooms.db"
	defaultVoteRateLimit = 30
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// PollSecret keys room tokens and voter fingerprints
	PollSecret     string
	InsecureSecret bool // PollSecret is DevSecret

	RedisURL      string
	Production    bool
	TrustProxy    bool
	CORSOrigins   []string
	PublicURL     string
	VoteRateLimit int // votes per IP per minute
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-pick-rooms", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for caching and live fan-out")
	fs.StringVar(&cfg.PublicURL, "public-url", "", "Origin used in share links")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.PollSecret, "secret", "", "Poll hash secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Production = strings.EqualFold(os.Getenv("APP_ENV"), "production")

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", defaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = defaultSQLitePath
	}

	// Secret - MUST be provided in production
	if cfg.PollSecret == "" {
		cfg.PollSecret = os.Getenv("POLL_HASH_SECRET")
	}
	if cfg.PollSecret == "" {
		if cfg.Production {
			return Config{}, errors.New("POLL_HASH_SECRET required in production")
		}
		cfg.PollSecret = DevSecret
		cfg.InsecureSecret = true
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = os.Getenv("PUBLIC_URL")
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	// Proxy headers are honoured unless the server faces clients directly
	trustProxy, err := envBool("TRUST_PROXY", true)
	if err != nil {
		return Config{}, err
	}
	cfg.TrustProxy = trustProxy

	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	limit, err := envInt("VOTE_RATE_LIMIT", defaultVoteRateLimit)
	if err != nil {
		return Config{}, err
	}
	if limit <= 0 {
		return Config{}, errors.New("VOTE_RATE_LIMIT must be positive")
	}
	cfg.VoteRateLimit = limit

	return cfg, nil
}

// SecureCookie reports whether the voter cookie is restricted to HTTPS
func (c Config) SecureCookie() bool {
	return c.Production
}

func envBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s env variable", key)
	}
	return b, nil
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
