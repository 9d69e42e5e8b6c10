// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are stored as Unix seconds so both dialects compare them the
// same way.
const schema = `
-- Poll rooms
CREATE TABLE IF NOT EXISTS poll_room (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    expires_at BIGINT NOT NULL,
    created_at BIGINT NOT NULL
);

-- Options
CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES poll_room(id) ON DELETE CASCADE,
    option_text TEXT NOT NULL,
    option_order INTEGER NOT NULL,
    UNIQUE (room_id, option_order)
);

CREATE INDEX IF NOT EXISTS idx_poll_option_room_id ON poll_option(room_id);

-- Votes
-- One vote per voter hash and one per IP hash in each room. These two
-- constraints are what actually serialize concurrent duplicate votes.
CREATE TABLE IF NOT EXISTS poll_vote (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES poll_room(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES poll_option(id) ON DELETE CASCADE,
    voter_hash TEXT NOT NULL,
    ip_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    UNIQUE (room_id, voter_hash),
    UNIQUE (room_id, ip_hash)
);

CREATE INDEX IF NOT EXISTS idx_poll_vote_room_id ON poll_vote(room_id);
`
