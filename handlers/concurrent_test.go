// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-pick-rooms/models"
	"github.com/danielhkuo/quickly-pick-rooms/testutil"
)

// TestConcurrentVotesFromDistinctVoters verifies that simultaneous votes from
// different voters on different networks are all recorded
func TestConcurrentVotesFromDistinctVoters(t *testing.T) {
	env := setupHandlers(t)
	expiresAt := time.Now().Add(time.Hour)
	roomID, optionIDs := testutil.CreateTestRoom(t, env.store, expiresAt, "A", "B", "C")
	token := testutil.IssueTestToken(t, roomID, expiresAt)

	numVoters := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			req := voteRequest(roomID, models.CastVoteRequest{
				OptionID: optionIDs[voterIdx%len(optionIDs)],
				Token:    token,
			}, fmt.Sprintf("198.51.100.%d", voterIdx+1), fmt.Sprintf("voter-%d", voterIdx))
			w := httptest.NewRecorder()

			env.votes.CastVote(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	votes, err := env.store.ListVotes(context.Background(), roomID)
	if err != nil {
		t.Fatalf("ListVotes failed: %v", err)
	}
	if len(votes) != numVoters {
		t.Errorf("Expected %d votes in database, got %d", numVoters, len(votes))
	}
}

// TestConcurrentDuplicateVotes verifies that a burst of votes from the same
// voter admits exactly one and answers the rest with 409
func TestConcurrentDuplicateVotes(t *testing.T) {
	env := setupHandlers(t)
	expiresAt := time.Now().Add(time.Hour)
	roomID, optionIDs := testutil.CreateTestRoom(t, env.store, expiresAt, "A", "B")
	token := testutil.IssueTestToken(t, roomID, expiresAt)

	numAttempts := 12
	var okCount, conflictCount, otherCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := voteRequest(roomID, models.CastVoteRequest{
				OptionID: optionIDs[idx%2],
				Token:    token,
			}, "198.51.100.50", "same-voter")
			w := httptest.NewRecorder()

			env.votes.CastVote(w, req)

			switch w.Code {
			case http.StatusOK:
				okCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			default:
				otherCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if okCount.Load() != 1 {
		t.Errorf("Expected exactly 1 admitted vote, got %d", okCount.Load())
	}
	if int(conflictCount.Load()) != numAttempts-1 {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflictCount.Load())
	}
	if otherCount.Load() != 0 {
		t.Errorf("Expected no other statuses, got %d", otherCount.Load())
	}

	votes, err := env.store.ListVotes(context.Background(), roomID)
	if err != nil {
		t.Fatalf("ListVotes failed: %v", err)
	}
	if len(votes) != 1 {
		t.Errorf("Expected 1 vote in database, got %d", len(votes))
	}
}
