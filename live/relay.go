// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/quickly-pick-rooms/models"
)

// DefaultChannel is the Redis pub/sub channel tally updates travel on
const DefaultChannel = "poll_room:tally"

type relayEnvelope struct {
	RoomID  string          `json:"roomId"`
	Message json.RawMessage `json:"message"`
}

// RedisRelay publishes updates through Redis so that every instance
// subscribed to the channel delivers them to its own hub
type RedisRelay struct {
	client  *redis.Client
	hub     *Hub
	channel string
}

func NewRedisRelay(client *redis.Client, hub *Hub, channel string) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{client: client, hub: hub, channel: channel}
}

func (r *RedisRelay) Publish(ctx context.Context, update models.TallyUpdate) error {
	msg, err := encodeTally(update)
	if err != nil {
		return err
	}

	data, err := json.Marshal(relayEnvelope{RoomID: update.RoomID, Message: msg})
	if err != nil {
		return err
	}

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish tally update: %w", err)
	}
	return nil
}

// Run relays messages from the channel into the hub until ctx is done
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before relaying
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	slog.Info("live relay subscribed", "channel", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var env relayEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				slog.Warn("discarding malformed relay message", "error", err)
				continue
			}
			r.hub.Deliver(env.RoomID, env.Message)
		}
	}
}
