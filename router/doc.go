// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the quickly-pick-rooms API.

# Route Registration

NewRouter builds a chi router with all endpoints:

	hub := live.NewHub()
	mux := router.NewRouter(store, cfg, hub, hub)

Pass a live.RedisRelay as the broadcaster when several instances share a
Redis server.

# Endpoints

Operational:

	GET /health  - Liveness
	GET /metrics - Prometheus exposition
	GET /        - Banner

Poll rooms (token in ?token= or Authorization: Bearer):

	POST /polls                - Create room, returns share token
	GET  /polls/{roomId}       - Live results and hasVoted
	POST /polls/{roomId}/vote  - Cast a vote (rate limited per client IP)
	GET  /polls/{roomId}/live  - WebSocket tally feed

# Middleware

Every request gets a chi request ID, panic recovery and CORS. Poll routes
also get request logging and Prometheus request metrics labelled by route
pattern.
*/
package router
