// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the quickly-pick-rooms API server.

quickly-pick-rooms serves short-lived single-choice poll rooms. Creating a
room returns a signed share token; anyone holding the token can read live
results and cast one vote per browser and per network address until the room
expires.

# Starting the Server

With no configuration the server uses a local SQLite file and a development
secret:

	go run .

For PostgreSQL and Redis:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... REDIS_URL=redis://localhost:6379/0 go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -redis "redis://..."

# Configuration

Required in production (APP_ENV=production):

  - POLL_HASH_SECRET (-secret): signs room tokens and keys voter hashes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t), DATABASE_URL (-d): sqlite (default) or postgres
  - REDIS_URL (-redis): room cache and cross-instance live updates
  - PUBLIC_URL (-public-url): origin used in share links
  - TRUST_PROXY, CORS_ORIGINS, VOTE_RATE_LIMIT

Settings may also come from a .env file or an AWS Secrets Manager secret.
See package cliparse.

# Architecture

  - auth: room tokens and voter fingerprints
  - voting: vote admission gate and result tally
  - db: SQL row store (PostgreSQL, SQLite)
  - cache: Redis room metadata cache
  - live: WebSocket tally feed and Redis relay
  - handlers: HTTP request handlers
  - router: chi routes and middleware chain
  - middleware: logging, metrics, CORS, rate limiting, JSON helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
