// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-pick-rooms/auth"
	"github.com/danielhkuo/quickly-pick-rooms/db"
	"github.com/danielhkuo/quickly-pick-rooms/models"
)

var (
	ErrRoomNotFound  = errors.New("poll room not found")
	ErrRoomClosed    = errors.New("poll room is closed")
	ErrUnknownOption = errors.New("option does not belong to this poll room")
	ErrAlreadyVoted  = errors.New("already voted in this poll room")
)

// Gate admits at most one vote per voter hash and per IP hash in each room
type Gate struct {
	store db.Store
	now   func() time.Time
}

func NewGate(store db.Store) *Gate {
	return &Gate{store: store, now: time.Now}
}

// WithClock returns a copy of g that reads the current time from now
func (g *Gate) WithClock(now func() time.Time) *Gate {
	return &Gate{store: g.store, now: now}
}

// openRoom loads a room and rejects it when missing or expired
func (g *Gate) openRoom(ctx context.Context, roomID string) (*models.PollRoom, error) {
	room, err := g.store.GetRoom(ctx, roomID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load poll room: %w", err)
	}

	if StateAt(room.ExpiresAt, g.now()) == StateClosed {
		return nil, ErrRoomClosed
	}
	return room, nil
}

// CastVote records a vote for optionID. On success and when the voter has
// already voted, the returned view reflects the current tally with HasVoted
// set; in the latter case ErrAlreadyVoted is returned alongside it.
func (g *Gate) CastVote(ctx context.Context, roomID, optionID string, fp auth.Fingerprint) (*models.PollRoomView, error) {
	room, err := g.openRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	var options []models.PollOption
	var voted bool

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		options, err = g.store.ListOptions(egCtx, roomID)
		return err
	})
	eg.Go(func() error {
		var err error
		voted, err = g.store.HasVoted(egCtx, roomID, fp.VoterHash, fp.IPHash)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to check vote eligibility: %w", err)
	}

	if !containsOption(options, optionID) {
		return nil, ErrUnknownOption
	}

	if voted {
		return g.votedView(ctx, room, options)
	}

	err = g.store.InsertVote(ctx, models.Vote{
		ID:        auth.NewID(),
		RoomID:    roomID,
		OptionID:  optionID,
		VoterHash: fp.VoterHash,
		IPHash:    fp.IPHash,
		CreatedAt: g.now(),
	})
	if errors.Is(err, db.ErrConstraintViolation) {
		// Lost a race with a concurrent vote from the same voter or IP
		return g.votedView(ctx, room, options)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	votes, err := g.store.ListVotes(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}

	view := Tally(room, options, votes, true)
	return &view, nil
}

func (g *Gate) votedView(ctx context.Context, room *models.PollRoom, options []models.PollOption) (*models.PollRoomView, error) {
	votes, err := g.store.ListVotes(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}

	view := Tally(room, options, votes, true)
	return &view, ErrAlreadyVoted
}

// View returns the current tally of an open room as seen by fp
func (g *Gate) View(ctx context.Context, roomID string, fp auth.Fingerprint) (*models.PollRoomView, error) {
	room, err := g.openRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	var options []models.PollOption
	var votes []models.Vote
	var voted bool

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		options, err = g.store.ListOptions(egCtx, roomID)
		return err
	})
	eg.Go(func() error {
		var err error
		votes, err = g.store.ListVotes(egCtx, roomID)
		return err
	})
	eg.Go(func() error {
		var err error
		voted, err = g.store.HasVoted(egCtx, roomID, fp.VoterHash, fp.IPHash)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load poll room: %w", err)
	}

	view := Tally(room, options, votes, voted)
	return &view, nil
}

// Open reports the room if it exists and is still accepting votes
func (g *Gate) Open(ctx context.Context, roomID string) (*models.PollRoom, error) {
	return g.openRoom(ctx, roomID)
}

func containsOption(options []models.PollOption, optionID string) bool {
	for _, opt := range options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
