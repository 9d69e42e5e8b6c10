// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cache keeps poll room metadata in Redis. Rooms and their options
// never change after creation, so entries live until the room expires.
package cache
