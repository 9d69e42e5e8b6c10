// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/danielhkuo/quickly-pick-rooms/metrics"
	"github.com/danielhkuo/quickly-pick-rooms/models"
)

// MessageType defines the type of a live message
type MessageType string

const MsgTally MessageType = "tally"

// sendBuffer is the number of messages queued per subscriber before new
// messages are dropped
const sendBuffer = 16

// Message is the envelope written to subscribers
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Broadcaster fans a tally update out to the room's subscribers
type Broadcaster interface {
	Publish(ctx context.Context, update models.TallyUpdate) error
}

// Client is one subscriber to a room's feed
type Client struct {
	RoomID string
	Send   chan []byte
}

// Hub tracks the subscribers of each room in this process
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Subscribe registers a new client for roomID
func (h *Hub) Subscribe(roomID string) *Client {
	c := &Client{RoomID: roomID, Send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
	h.mu.Unlock()

	metrics.LiveSubscribers.Inc()
	return c
}

// Unsubscribe removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[c.RoomID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(h.rooms, c.RoomID)
	}
	close(c.Send)
	metrics.LiveSubscribers.Dec()
}

// Subscribers returns the number of clients subscribed to roomID
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Publish delivers update to the local subscribers of its room
func (h *Hub) Publish(ctx context.Context, update models.TallyUpdate) error {
	data, err := encodeTally(update)
	if err != nil {
		return err
	}
	h.Deliver(update.RoomID, data)
	return nil
}

// Deliver queues an encoded message for every subscriber of roomID.
// Subscribers whose buffer is full miss the message.
func (h *Hub) Deliver(roomID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[roomID] {
		select {
		case c.Send <- data:
		default:
			slog.Debug("dropping live message for slow subscriber", "room_id", roomID)
		}
	}
}

func encodeTally(update models.TallyUpdate) ([]byte, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: MsgTally, Payload: payload})
}
