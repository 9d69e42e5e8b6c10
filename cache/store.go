// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/quickly-pick-rooms/db"
	"github.com/danielhkuo/quickly-pick-rooms/models"
)

// CachedStore serves room and option reads from a RoomCache and delegates
// everything else to the wrapped store. Vote reads always hit the store.
type CachedStore struct {
	db.Store
	cache RoomCache
}

func NewCachedStore(store db.Store, cache RoomCache) *CachedStore {
	return &CachedStore{Store: store, cache: cache}
}

func (s *CachedStore) GetRoom(ctx context.Context, roomID string) (*models.PollRoom, error) {
	room, err := s.cache.GetRoom(ctx, roomID)
	if err != nil {
		slog.Warn("room cache read failed", "room_id", roomID, "error", err)
	}
	if room != nil {
		return room, nil
	}

	room, err = s.Store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetRoom(ctx, room); err != nil {
		slog.Warn("room cache write failed", "room_id", roomID, "error", err)
	}
	return room, nil
}

func (s *CachedStore) ListOptions(ctx context.Context, roomID string) ([]models.PollOption, error) {
	options, err := s.cache.GetOptions(ctx, roomID)
	if err != nil {
		slog.Warn("options cache read failed", "room_id", roomID, "error", err)
	}
	if options != nil {
		return options, nil
	}

	options, err = s.Store.ListOptions(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// The expiry bounds the entry's TTL, so only cache options of a known room
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return options, nil
	}
	if err := s.cache.SetOptions(ctx, room, options); err != nil {
		slog.Warn("options cache write failed", "room_id", roomID, "error", err)
	}
	return options, nil
}
