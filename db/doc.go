// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the poll room schema and the row store.

# Connecting

Open selects the driver for the configured dialect and pings it:

	conn, err := db.Open(ctx, db.DialectSQLite, "file:polls.db")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}
	store := db.NewSQLStore(conn, db.DialectSQLite)

PostgreSQL uses github.com/lib/pq; SQLite uses the pure Go modernc.org/sqlite
driver. Queries are written with ? placeholders and rebound for PostgreSQL.

# Tables

	poll_room 1──* poll_option
	poll_room 1──* poll_vote
	poll_option 1──* poll_vote

poll_room holds the question and expiry, poll_option the options in display
order, and poll_vote one row per admitted vote. All foreign keys use ON
DELETE CASCADE. Open enables foreign keys for SQLite through the DSN.

# Uniqueness

poll_vote is unique on (room_id, voter_hash) and on (room_id, ip_hash).
InsertVote reports a violation of either as ErrConstraintViolation,
classified from the driver error type rather than its message.
*/
package db
