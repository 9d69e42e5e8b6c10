// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/quickly-pick-rooms/models"
)

// Store is the row store the poll rooms are persisted in.
// Rooms and options are written once; votes are insert-only.
type Store interface {
	// CreateRoom inserts a room and its options atomically
	CreateRoom(ctx context.Context, room models.PollRoom, options []models.PollOption) error
	// GetRoom returns ErrNotFound when the room does not exist
	GetRoom(ctx context.Context, roomID string) (*models.PollRoom, error)
	// ListOptions returns options in display order
	ListOptions(ctx context.Context, roomID string) ([]models.PollOption, error)
	ListVotes(ctx context.Context, roomID string) ([]models.Vote, error)
	// HasVoted reports whether a vote matching either hash exists in the room
	HasVoted(ctx context.Context, roomID, voterHash, ipHash string) (bool, error)
	// InsertVote returns ErrConstraintViolation when either hash already voted
	InsertVote(ctx context.Context, vote models.Vote) error
}

// SQLStore implements Store over database/sql for PostgreSQL and SQLite
type SQLStore struct {
	db      *sql.DB
	dialect string
}

func NewSQLStore(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	return sqlx.Rebind(sqlx.DOLLAR, query)
}

func (s *SQLStore) CreateRoom(ctx context.Context, room models.PollRoom, options []models.PollOption) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO poll_room (id, question, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`), room.ID, room.Question, room.ExpiresAt.Unix(), room.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert poll room: %w", err)
	}

	for _, opt := range options {
		_, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO poll_option (id, room_id, option_text, option_order)
			VALUES (?, ?, ?, ?)
		`), opt.ID, room.ID, opt.Text, opt.Order)
		if err != nil {
			return fmt.Errorf("failed to insert poll option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) GetRoom(ctx context.Context, roomID string) (*models.PollRoom, error) {
	var room models.PollRoom
	var expiresAt, createdAt int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, question, expires_at, created_at FROM poll_room WHERE id = ? LIMIT 1
	`), roomID).Scan(&room.ID, &room.Question, &expiresAt, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll room: %w", err)
	}

	room.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	room.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &room, nil
}

func (s *SQLStore) ListOptions(ctx context.Context, roomID string) ([]models.PollOption, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, room_id, option_text, option_order
		FROM poll_option
		WHERE room_id = ?
		ORDER BY option_order ASC
	`), roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	options := []models.PollOption{}
	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.ID, &opt.RoomID, &opt.Text, &opt.Order); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}

	return options, nil
}

// ListVotes returns only the room and option of each vote; the hashes stay
// in the database
func (s *SQLStore) ListVotes(ctx context.Context, roomID string) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, option_id FROM poll_vote WHERE room_id = ?
	`), roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		vote := models.Vote{RoomID: roomID}
		if err := rows.Scan(&vote.ID, &vote.OptionID); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}

	return votes, nil
}

func (s *SQLStore) HasVoted(ctx context.Context, roomID, voterHash, ipHash string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT EXISTS(
			SELECT 1 FROM poll_vote
			WHERE room_id = ? AND (voter_hash = ? OR ip_hash = ?)
		)
	`), roomID, voterHash, ipHash).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return exists, nil
}

func (s *SQLStore) InsertVote(ctx context.Context, vote models.Vote) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO poll_vote (id, room_id, option_id, voter_hash, ip_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), vote.ID, vote.RoomID, vote.OptionID, vote.VoterHash, vote.IPHash, vote.CreatedAt.Unix())

	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}
