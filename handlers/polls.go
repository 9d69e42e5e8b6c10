// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-pick-rooms/auth"
	"github.com/danielhkuo/quickly-pick-rooms/db"
	"github.com/danielhkuo/quickly-pick-rooms/metrics"
	"github.com/danielhkuo/quickly-pick-rooms/middleware"
	"github.com/danielhkuo/quickly-pick-rooms/models"
	"github.com/danielhkuo/quickly-pick-rooms/voting"
)

const (
	minQuestionLength = 5
	maxQuestionLength = 280
	minOptions        = 2
	maxOptions        = 10
)

type PollHandler struct {
	store        db.Store
	gate         *voting.Gate
	tokens       *auth.RoomTokens
	fingerprints *auth.Fingerprinter
	publicURL    string
	now          func() time.Time
}

func NewPollHandler(store db.Store, gate *voting.Gate, tokens *auth.RoomTokens, fingerprints *auth.Fingerprinter, publicURL string) *PollHandler {
	return &PollHandler{
		store:        store,
		gate:         gate,
		tokens:       tokens,
		fingerprints: fingerprints,
		publicURL:    publicURL,
		now:          time.Now,
	}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	question := strings.TrimSpace(req.Question)
	if n := utf8.RuneCountInString(question); n < minQuestionLength || n > maxQuestionLength {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("question must be between %d and %d characters", minQuestionLength, maxQuestionLength))
		return
	}

	lifetime, ok := models.PollDurations[req.Duration]
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "duration must be one of 1h, 24h, 7d")
		return
	}

	texts := sanitizeOptions(req.Options)
	if len(texts) < minOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least 2 unique options are required")
		return
	}
	if len(texts) > maxOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at most 10 options are allowed")
		return
	}

	// Expiry is stored with second precision; the token must agree with it
	now := h.now().UTC().Truncate(time.Second)
	room := models.PollRoom{
		ID:        auth.NewID(),
		Question:  question,
		ExpiresAt: now.Add(lifetime),
		CreatedAt: now,
	}

	options := make([]models.PollOption, len(texts))
	for i, text := range texts {
		options[i] = models.PollOption{ID: auth.NewID(), RoomID: room.ID, Text: text, Order: i}
	}

	if err := h.store.CreateRoom(r.Context(), room, options); err != nil {
		slog.Error("failed to create poll room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll room")
		return
	}

	token, err := h.tokens.Issue(room.ID, room.ExpiresAt)
	if err != nil {
		slog.Error("failed to issue room token", "room_id", room.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll room")
		return
	}

	metrics.RoomsCreatedTotal.WithLabelValues(req.Duration).Inc()
	slog.Info("poll room created",
		"room_id", room.ID,
		"options", len(options),
		"expires", humanize.Time(room.ExpiresAt),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		RoomID:    room.ID,
		ShareURL:  fmt.Sprintf("%s/poll/%s?token=%s", h.origin(r), room.ID, url.QueryEscape(token)),
		Token:     token,
		ExpiresAt: room.ExpiresAt,
	})
}

// GetPoll handles GET /polls/{roomId}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	if !authorizeRoom(w, h.tokens, requestToken(r), roomID) {
		return
	}

	fp := h.fingerprints.Derive(r)
	view, err := h.gate.View(r.Context(), roomID, fp)
	if err != nil {
		writeRoomError(w, err, roomID)
		return
	}

	h.fingerprints.SetCookie(w, fp)
	middleware.JSONResponse(w, http.StatusOK, view)
}

// origin is the configured public URL, or the origin the request arrived on
func (h *PollHandler) origin(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// sanitizeOptions trims options, drops blanks and removes duplicates while
// keeping the first occurrence's position
func sanitizeOptions(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, opt := range raw {
		opt = strings.TrimSpace(opt)
		if opt == "" || seen[opt] {
			continue
		}
		seen[opt] = true
		out = append(out, opt)
	}
	return out
}
