// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-pick-rooms/auth"
	"github.com/danielhkuo/quickly-pick-rooms/live"
	"github.com/danielhkuo/quickly-pick-rooms/metrics"
	"github.com/danielhkuo/quickly-pick-rooms/middleware"
	"github.com/danielhkuo/quickly-pick-rooms/models"
	"github.com/danielhkuo/quickly-pick-rooms/voting"
)

const publishTimeout = 2 * time.Second

type VotingHandler struct {
	gate         *voting.Gate
	tokens       *auth.RoomTokens
	fingerprints *auth.Fingerprinter
	broadcaster  live.Broadcaster
}

func NewVotingHandler(gate *voting.Gate, tokens *auth.RoomTokens, fingerprints *auth.Fingerprinter, broadcaster live.Broadcaster) *VotingHandler {
	return &VotingHandler{
		gate:         gate,
		tokens:       tokens,
		fingerprints: fingerprints,
		broadcaster:  broadcaster,
	}
}

// CastVote handles POST /polls/{roomId}/vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		metrics.VotesTotal.WithLabelValues("bad_request").Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = requestToken(r)
	}
	optionID := strings.TrimSpace(req.OptionID)
	if token == "" || optionID == "" {
		metrics.VotesTotal.WithLabelValues("bad_request").Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, "token and optionId are required")
		return
	}

	if !authorizeRoom(w, h.tokens, token, roomID) {
		metrics.VotesTotal.WithLabelValues("unauthorized").Inc()
		return
	}

	fp := h.fingerprints.Derive(r)
	view, err := h.gate.CastVote(r.Context(), roomID, optionID, fp)

	switch {
	case err == nil:
		metrics.VotesTotal.WithLabelValues("accepted").Inc()
		slog.Info("vote recorded", "room_id", roomID, "total_votes", view.TotalVotes)
		h.publish(r.Context(), view)
		h.fingerprints.SetCookie(w, fp)
		middleware.JSONResponse(w, http.StatusOK, view)

	case errors.Is(err, voting.ErrAlreadyVoted):
		metrics.VotesTotal.WithLabelValues("conflict").Inc()
		h.fingerprints.SetCookie(w, fp)
		middleware.JSONResponse(w, http.StatusConflict, view)

	case errors.Is(err, voting.ErrUnknownOption):
		metrics.VotesTotal.WithLabelValues("unknown_option").Inc()
		middleware.ErrorResponse(w, http.StatusNotFound, "Option does not belong to this poll room")

	case errors.Is(err, voting.ErrRoomNotFound):
		metrics.VotesTotal.WithLabelValues("not_found").Inc()
		writeRoomError(w, err, roomID)

	case errors.Is(err, voting.ErrRoomClosed):
		metrics.VotesTotal.WithLabelValues("closed").Inc()
		writeRoomError(w, err, roomID)

	default:
		metrics.VotesTotal.WithLabelValues("error").Inc()
		slog.Error("failed to record vote", "room_id", roomID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Unable to record vote: "+err.Error())
	}
}

// publish pushes the new tally to live subscribers. Failures are logged;
// the vote itself is already committed.
func (h *VotingHandler) publish(ctx context.Context, view *models.PollRoomView) {
	if h.broadcaster == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := h.broadcaster.Publish(ctx, voting.Update(view)); err != nil {
		slog.Warn("failed to publish tally update", "room_id", view.RoomID, "error", err)
	}
}
