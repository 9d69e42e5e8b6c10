// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-pick-rooms/auth"
	"github.com/danielhkuo/quickly-pick-rooms/cliparse"
	"github.com/danielhkuo/quickly-pick-rooms/db"
	"github.com/danielhkuo/quickly-pick-rooms/handlers"
	"github.com/danielhkuo/quickly-pick-rooms/live"
	"github.com/danielhkuo/quickly-pick-rooms/middleware"
	"github.com/danielhkuo/quickly-pick-rooms/voting"
)

// NewRouter wires the handlers. Tally updates go to broadcaster, which is
// either hub itself or a relay that feeds it.
func NewRouter(store db.Store, cfg cliparse.Config, hub *live.Hub, broadcaster live.Broadcaster) *chi.Mux {
	secret := []byte(cfg.PollSecret)
	tokens := auth.NewRoomTokens(secret)
	fingerprints := auth.NewFingerprinter(secret, cfg.TrustProxy, cfg.SecureCookie())
	gate := voting.NewGate(store)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(store, gate, tokens, fingerprints, cfg.PublicURL)
	votingHandler := handlers.NewVotingHandler(gate, tokens, fingerprints, broadcaster)
	liveHandler := handlers.NewLiveHandler(gate, tokens, hub)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.WithLogging)
		r.Use(middleware.WithMetrics)

		r.Post("/polls", pollHandler.CreatePoll)
		r.Get("/polls/{roomId}", pollHandler.GetPoll)
		r.Get("/polls/{roomId}/live", liveHandler.Subscribe)

		// Votes are limited per client IP, resolved the same way as the IP hash
		r.With(middleware.RateLimit(cfg.VoteRateLimit, time.Minute, fingerprints.ClientIP)).
			Post("/polls/{roomId}/vote", votingHandler.CastVote)
	})

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-pick-rooms API v1"))
	})

	return r
}
