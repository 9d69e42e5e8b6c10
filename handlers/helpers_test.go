// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-pick-rooms/auth"
	"github.com/danielhkuo/quickly-pick-rooms/db"
	"github.com/danielhkuo/quickly-pick-rooms/live"
	"github.com/danielhkuo/quickly-pick-rooms/testutil"
	"github.com/danielhkuo/quickly-pick-rooms/voting"
)

type testEnv struct {
	store   *db.SQLStore
	hub     *live.Hub
	polls   *PollHandler
	votes   *VotingHandler
	live    *LiveHandler
	secret  []byte
	tokens  *auth.RoomTokens
	gate    *voting.Gate
	fingers *auth.Fingerprinter
}

func setupHandlers(t *testing.T) *testEnv {
	t.Helper()

	cfg := testutil.GetTestConfig()
	store := testutil.SetupTestStore(t)
	secret := []byte(cfg.PollSecret)

	tokens := auth.NewRoomTokens(secret)
	fingers := auth.NewFingerprinter(secret, cfg.TrustProxy, false)
	gate := voting.NewGate(store)
	hub := live.NewHub()

	return &testEnv{
		store:   store,
		hub:     hub,
		polls:   NewPollHandler(store, gate, tokens, fingers, cfg.PublicURL),
		votes:   NewVotingHandler(gate, tokens, fingers, hub),
		live:    NewLiveHandler(gate, tokens, hub),
		secret:  secret,
		tokens:  tokens,
		gate:    gate,
		fingers: fingers,
	}
}

// withRoomID attaches the chi route parameter the handlers read
func withRoomID(req *http.Request, roomID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("roomId", roomID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// fromClient sets the connection address and, optionally, the voter cookie
func fromClient(req *http.Request, ip, voterID string) *http.Request {
	req.RemoteAddr = ip + ":40000"
	if voterID != "" {
		req.AddCookie(&http.Cookie{Name: auth.VoterCookieName, Value: voterID})
	}
	return req
}
