// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Duration presets accepted when creating a poll room
const (
	DurationHour = "1h"
	DurationDay  = "24h"
	DurationWeek = "7d"
)

// PollDurations maps a duration preset to the room lifetime
var PollDurations = map[string]time.Duration{
	DurationHour: time.Hour,
	DurationDay:  24 * time.Hour,
	DurationWeek: 7 * 24 * time.Hour,
}

// Request types

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Duration string   `json:"duration"`
}

type CastVoteRequest struct {
	OptionID string `json:"optionId"`
	Token    string `json:"token"`
}

// Response types

type CreatePollResponse struct {
	RoomID    string    `json:"roomId"`
	ShareURL  string    `json:"shareUrl"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type OptionResult struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	VoteCount  int    `json:"voteCount"`
	Percentage int    `json:"percentage"`
}

// PollRoomView is the aggregated result of a room as seen by one voter
type PollRoomView struct {
	RoomID     string         `json:"roomId"`
	Question   string         `json:"question"`
	ExpiresAt  time.Time      `json:"expiresAt"`
	TotalVotes int            `json:"totalVotes"`
	HasVoted   bool           `json:"hasVoted"`
	Options    []OptionResult `json:"options"`
}

// TallyUpdate is pushed to live subscribers after a vote is recorded.
// It carries no per-voter state.
type TallyUpdate struct {
	RoomID     string         `json:"roomId"`
	TotalVotes int            `json:"totalVotes"`
	Options    []OptionResult `json:"options"`
}

// Domain types

type PollRoom struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

type PollOption struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
	Order  int    `json:"order"` // 0-based display order
}

type Vote struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	OptionID  string    `json:"optionId"`
	VoterHash string    `json:"-"` // Never expose in JSON
	IPHash    string    `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
