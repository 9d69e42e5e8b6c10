// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/quickly-pick-rooms/voting"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Access is gated by the room token, not the origin
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Serve upgrades the request and streams roomID's updates until the client
// disconnects or the room closes at expiresAt. The caller must have
// authorized the request.
func Serve(hub *Hub, w http.ResponseWriter, r *http.Request, roomID string, expiresAt time.Time) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		slog.Warn("websocket upgrade failed", "room_id", roomID, "error", err)
		return
	}

	client := hub.Subscribe(roomID)
	slog.Info("live subscriber connected", "room_id", roomID, "subscribers", hub.Subscribers(roomID))

	go writePump(conn, client, expiresAt)
	readPump(hub, conn, client)
}

// readPump discards client messages and keeps the read deadline alive
func readPump(hub *Hub, conn *websocket.Conn, client *Client) {
	defer func() {
		hub.Unsubscribe(client)
		conn.Close()
		slog.Info("live subscriber disconnected", "room_id", client.RoomID)
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "room_id", client.RoomID, "error", err)
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, client *Client, expiresAt time.Time) {
	ticker := time.NewTicker(pingPeriod)
	expiry := time.NewTimer(time.Until(expiresAt))
	defer func() {
		ticker.Stop()
		expiry.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-expiry.C:
			if voting.StateAt(expiresAt, time.Now()) == voting.StateOpen {
				expiry.Reset(time.Until(expiresAt))
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "poll room closed"))
			slog.Info("live feed closed at expiry", "room_id", client.RoomID)
			return

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
