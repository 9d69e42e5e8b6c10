// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "time"

type RoomState string

const (
	StateOpen   RoomState = "open"
	StateClosed RoomState = "closed"
)

// StateAt reports whether a room expiring at expiresAt accepts votes at now.
// A room is closed from the instant of expiry onward.
func StateAt(expiresAt, now time.Time) RoomState {
	if now.Before(expiresAt) {
		return StateOpen
	}
	return StateClosed
}
