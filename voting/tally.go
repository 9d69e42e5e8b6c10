// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"math"

	"github.com/danielhkuo/quickly-pick-rooms/models"
)

// Tally aggregates votes into the room view. Options keep their stored
// order; votes for options not in the list are ignored.
func Tally(room *models.PollRoom, options []models.PollOption, votes []models.Vote, hasVoted bool) models.PollRoomView {
	counts := make(map[string]int, len(options))
	for _, opt := range options {
		counts[opt.ID] = 0
	}

	total := 0
	for _, v := range votes {
		if _, ok := counts[v.OptionID]; !ok {
			continue
		}
		counts[v.OptionID]++
		total++
	}

	results := make([]models.OptionResult, 0, len(options))
	for _, opt := range options {
		count := counts[opt.ID]
		results = append(results, models.OptionResult{
			ID:         opt.ID,
			Text:       opt.Text,
			VoteCount:  count,
			Percentage: percentage(count, total),
		})
	}

	return models.PollRoomView{
		RoomID:     room.ID,
		Question:   room.Question,
		ExpiresAt:  room.ExpiresAt,
		TotalVotes: total,
		HasVoted:   hasVoted,
		Options:    results,
	}
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// Update strips the per-voter fields from a view for broadcasting
func Update(view *models.PollRoomView) models.TallyUpdate {
	return models.TallyUpdate{
		RoomID:     view.RoomID,
		TotalVotes: view.TotalVotes,
		Options:    view.Options,
	}
}
