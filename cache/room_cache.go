// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/quickly-pick-rooms/models"
)

// DefaultTTL caps how long a room entry lives in the cache
const DefaultTTL = 24 * time.Hour

// RoomCache holds room metadata and options. A miss is reported as a nil
// value with a nil error.
type RoomCache interface {
	GetRoom(ctx context.Context, roomID string) (*models.PollRoom, error)
	SetRoom(ctx context.Context, room *models.PollRoom) error
	GetOptions(ctx context.Context, roomID string) ([]models.PollOption, error)
	SetOptions(ctx context.Context, room *models.PollRoom, options []models.PollOption) error
}

type redisRoomCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisRoomCache creates a room cache backed by Redis
func NewRedisRoomCache(client *redis.Client, ttl time.Duration) RoomCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisRoomCache{client: client, ttl: ttl, now: time.Now}
}

func roomKey(roomID string) string {
	return fmt.Sprintf("poll_room:%s", roomID)
}

func optionsKey(roomID string) string {
	return fmt.Sprintf("poll_room:%s:options", roomID)
}

// ttlFor never outlives the room itself
func (c *redisRoomCache) ttlFor(room *models.PollRoom) time.Duration {
	remaining := room.ExpiresAt.Sub(c.now())
	if remaining < c.ttl {
		return remaining
	}
	return c.ttl
}

func (c *redisRoomCache) GetRoom(ctx context.Context, roomID string) (*models.PollRoom, error) {
	data, err := c.client.Get(ctx, roomKey(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var room models.PollRoom
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *redisRoomCache) SetRoom(ctx context.Context, room *models.PollRoom) error {
	ttl := c.ttlFor(room)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, roomKey(room.ID), data, ttl).Err()
}

func (c *redisRoomCache) GetOptions(ctx context.Context, roomID string) ([]models.PollOption, error) {
	data, err := c.client.Get(ctx, optionsKey(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var options []models.PollOption
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, err
	}
	return options, nil
}

func (c *redisRoomCache) SetOptions(ctx context.Context, room *models.PollRoom, options []models.PollOption) error {
	ttl := c.ttlFor(room)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, optionsKey(room.ID), data, ttl).Err()
}
