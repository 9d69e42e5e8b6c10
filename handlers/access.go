// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-pick-rooms/auth"
	"github.com/danielhkuo/quickly-pick-rooms/metrics"
	"github.com/danielhkuo/quickly-pick-rooms/middleware"
	"github.com/danielhkuo/quickly-pick-rooms/voting"
)

// requestToken reads the room token from the query string, falling back to
// a bearer Authorization header
func requestToken(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}

	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// authorizeRoom verifies token for roomID and writes a 401 when it fails
func authorizeRoom(w http.ResponseWriter, tokens *auth.RoomTokens, token, roomID string) bool {
	if token == "" {
		metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing room token")
		return false
	}

	_, err := tokens.Verify(token, roomID)
	metrics.TokenVerificationsTotal.WithLabelValues(auth.Reason(err)).Inc()
	if err != nil {
		slog.Info("room token rejected", "room_id", roomID, "reason", auth.Reason(err))
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return false
	}
	return true
}

// writeRoomError maps room lookup failures shared by every room route
func writeRoomError(w http.ResponseWriter, err error, roomID string) {
	switch {
	case errors.Is(err, voting.ErrRoomNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll room not found")
	case errors.Is(err, voting.ErrRoomClosed):
		middleware.ErrorResponse(w, http.StatusGone, "Poll room has expired")
	default:
		slog.Error("failed to load poll room", "room_id", roomID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
