// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-pick-rooms/auth"
	"github.com/danielhkuo/quickly-pick-rooms/live"
	"github.com/danielhkuo/quickly-pick-rooms/voting"
)

type LiveHandler struct {
	gate   *voting.Gate
	tokens *auth.RoomTokens
	hub    *live.Hub
}

func NewLiveHandler(gate *voting.Gate, tokens *auth.RoomTokens, hub *live.Hub) *LiveHandler {
	return &LiveHandler{gate: gate, tokens: tokens, hub: hub}
}

// Subscribe handles GET /polls/{roomId}/live
func (h *LiveHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	if !authorizeRoom(w, h.tokens, requestToken(r), roomID) {
		return
	}

	room, err := h.gate.Open(r.Context(), roomID)
	if err != nil {
		writeRoomError(w, err, roomID)
		return
	}

	live.Serve(h.hub, w, r, roomID, room.ExpiresAt)
}
