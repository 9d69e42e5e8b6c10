// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Loading

LoadEnv runs first. When AWS_SECRETS_MANAGER_SECRET_ID is set, the JSON
object stored in that secret is merged into the environment; then a .env file
(ENV_FILE_PATH, or the given default) is loaded. Existing variables win over
both unless AWS_SECRETS_MANAGER_OVERWRITE=true.

	cliparse.LoadEnv(ctx, ".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type (sqlite or postgres)
	-secret       Poll hash secret
	-redis        Redis URL
	-public-url   Origin used in share links

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p (default 3318)
	DATABASE_URL     → -d (default quickly-pick-rooms.db for sqlite)
	DATABASE_TYPE    → -t (default sqlite)
	POLL_HASH_SECRET → -secret
	REDIS_URL        → -redis
	PUBLIC_URL       → -public-url

Environment only:

	APP_ENV=production   refuse the development secret, mark cookies Secure
	TRUST_PROXY=false    ignore X-Forwarded-For and X-Real-IP (default true)
	CORS_ORIGINS         comma separated allowed origins (default any)
	VOTE_RATE_LIMIT      votes per client IP per minute (default 30)

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error when:

  - DATABASE_TYPE is not sqlite or postgres
  - postgres is selected without DATABASE_URL
  - APP_ENV=production and POLL_HASH_SECRET is missing
  - PORT or VOTE_RATE_LIMIT is not a positive integer
  - TRUST_PROXY is not a boolean

Outside production a missing secret falls back to DevSecret and sets
InsecureSecret so the caller can warn.
*/
package cliparse
