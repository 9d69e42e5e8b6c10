// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/quickly-pick-rooms/auth"
	"github.com/danielhkuo/quickly-pick-rooms/models"
	"github.com/danielhkuo/quickly-pick-rooms/testutil"
)

func TestCreatePoll(t *testing.T) {
	env := setupHandlers(t)
	fixed := time.Now().UTC()
	env.polls.now = func() time.Time { return fixed }

	req := testutil.MakeRequest("POST", "/polls", models.CreatePollRequest{
		Question: "  Where should we eat?  ",
		Options:  []string{" Tacos ", "Sushi", "", "Tacos", "Pizza"},
		Duration: models.DurationDay,
	}, nil)
	w := httptest.NewRecorder()

	env.polls.CreatePoll(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreatePollResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.RoomID == "" || resp.Token == "" {
		t.Fatalf("Expected roomId and token, got %+v", resp)
	}

	wantExpiry := fixed.Truncate(time.Second).Add(24 * time.Hour)
	if !resp.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("Expected expiresAt %v, got %v", wantExpiry, resp.ExpiresAt)
	}

	wantShare := "https://polls.test/poll/" + resp.RoomID + "?token=" + url.QueryEscape(resp.Token)
	if resp.ShareURL != wantShare {
		t.Errorf("Expected shareUrl %q, got %q", wantShare, resp.ShareURL)
	}

	// Token carries the room's expiry
	claims, err := env.tokens.Verify(resp.Token, resp.RoomID)
	if err != nil {
		t.Fatalf("Issued token does not verify: %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(wantExpiry) {
		t.Errorf("Expected token exp %v, got %v", wantExpiry, claims.ExpiresAt.Time)
	}

	// Options trimmed, de-duplicated and stored in order
	options, err := env.store.ListOptions(context.Background(), resp.RoomID)
	if err != nil {
		t.Fatalf("ListOptions failed: %v", err)
	}
	var texts []string
	for _, opt := range options {
		texts = append(texts, opt.Text)
	}
	if diff := cmp.Diff([]string{"Tacos", "Sushi", "Pizza"}, texts); diff != "" {
		t.Errorf("Options mismatch (-want +got):\n%s", diff)
	}

	room, err := env.store.GetRoom(context.Background(), resp.RoomID)
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if room.Question != "Where should we eat?" {
		t.Errorf("Expected trimmed question, got %q", room.Question)
	}
}

func TestCreatePoll_ShareURLFromRequestOrigin(t *testing.T) {
	env := setupHandlers(t)
	env.polls.publicURL = ""

	req := testutil.MakeRequest("POST", "/polls", models.CreatePollRequest{
		Question: "Tabs or spaces?",
		Options:  []string{"Tabs", "Spaces"},
		Duration: models.DurationHour,
	}, nil)
	req.Host = "localhost:3318"
	w := httptest.NewRecorder()

	env.polls.CreatePoll(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreatePollResponse
	testutil.AssertJSON(t, w, &resp)

	if !strings.HasPrefix(resp.ShareURL, "http://localhost:3318/poll/"+resp.RoomID+"?token=") {
		t.Errorf("Unexpected shareUrl %q", resp.ShareURL)
	}
}

func TestCreatePoll_Validation(t *testing.T) {
	env := setupHandlers(t)

	elevenOptions := make([]string, 11)
	for i := range elevenOptions {
		elevenOptions[i] = string(rune('A' + i))
	}

	testCases := []struct {
		name string
		body interface{}
	}{
		{"question too short", models.CreatePollRequest{Question: "Hi?", Options: []string{"a", "b"}, Duration: "1h"}},
		{"question only whitespace", models.CreatePollRequest{Question: "     ", Options: []string{"a", "b"}, Duration: "1h"}},
		{"question too long", models.CreatePollRequest{Question: strings.Repeat("q", 281), Options: []string{"a", "b"}, Duration: "1h"}},
		{"unknown duration", models.CreatePollRequest{Question: "Valid question", Options: []string{"a", "b"}, Duration: "2h"}},
		{"one option", models.CreatePollRequest{Question: "Valid question", Options: []string{"a"}, Duration: "1h"}},
		{"duplicates collapse below minimum", models.CreatePollRequest{Question: "Valid question", Options: []string{"a", " a ", ""}, Duration: "1h"}},
		{"too many options", models.CreatePollRequest{Question: "Valid question", Options: elevenOptions, Duration: "7d"}},
		{"not JSON", "not json"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/polls", tc.body, nil)
			w := httptest.NewRecorder()

			env.polls.CreatePoll(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestCreatePoll_QuestionLengthCountsCharacters(t *testing.T) {
	env := setupHandlers(t)

	// 280 multi-byte characters is within the limit
	req := testutil.MakeRequest("POST", "/polls", models.CreatePollRequest{
		Question: strings.Repeat("é", 280),
		Options:  []string{"oui", "non"},
		Duration: models.DurationWeek,
	}, nil)
	w := httptest.NewRecorder()

	env.polls.CreatePoll(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestGetPoll(t *testing.T) {
	env := setupHandlers(t)
	expiresAt := time.Now().Add(time.Hour)
	roomID, optionIDs := testutil.CreateTestRoom(t, env.store, expiresAt, "Yes", "No")
	token := testutil.IssueTestToken(t, roomID, expiresAt)

	req := withRoomID(testutil.MakeRequest("GET", "/polls/"+roomID+"?token="+url.QueryEscape(token), nil, nil), roomID)
	w := httptest.NewRecorder()

	env.polls.GetPoll(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	// First contact issues the voter cookie
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.VoterCookieName {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.Value == "" {
		t.Errorf("Expected HttpOnly voter cookie, got %+v", cookie)
	}

	var view models.PollRoomView
	testutil.AssertJSON(t, w, &view)

	if view.RoomID != roomID || view.HasVoted || view.TotalVotes != 0 {
		t.Errorf("Unexpected view: %+v", view)
	}
	if len(view.Options) != 2 || view.Options[0].ID != optionIDs[0] || view.Options[1].Text != "No" {
		t.Errorf("Unexpected options: %+v", view.Options)
	}
}

func TestGetPoll_BearerToken(t *testing.T) {
	env := setupHandlers(t)
	expiresAt := time.Now().Add(time.Hour)
	roomID, _ := testutil.CreateTestRoom(t, env.store, expiresAt, "Yes", "No")
	token := testutil.IssueTestToken(t, roomID, expiresAt)

	req := withRoomID(testutil.MakeRequest("GET", "/polls/"+roomID, nil, map[string]string{
		"Authorization": "Bearer " + token,
	}), roomID)
	w := httptest.NewRecorder()

	env.polls.GetPoll(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestGetPoll_Errors(t *testing.T) {
	env := setupHandlers(t)
	future := time.Now().Add(time.Hour)

	openID, _ := testutil.CreateTestRoom(t, env.store, future, "A", "B")
	expiredID, _ := testutil.CreateTestRoom(t, env.store, time.Now().Add(-time.Minute), "A", "B")
	otherID, _ := testutil.CreateTestRoom(t, env.store, future, "A", "B")

	testCases := []struct {
		name       string
		roomID     string
		token      string
		wantStatus int
	}{
		{"missing token", openID, "", http.StatusUnauthorized},
		{"garbage token", openID, "not.a.token", http.StatusUnauthorized},
		{"token for another room", openID, testutil.IssueTestToken(t, otherID, future), http.StatusUnauthorized},
		{"wrong secret", openID, mustIssue(t, []byte("other-secret"), openID, future), http.StatusUnauthorized},
		{"unknown room", "missing-room", testutil.IssueTestToken(t, "missing-room", future), http.StatusNotFound},
		// Token still valid, room already expired
		{"expired room", expiredID, testutil.IssueTestToken(t, expiredID, future), http.StatusGone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := "/polls/" + tc.roomID
			if tc.token != "" {
				path += "?token=" + url.QueryEscape(tc.token)
			}
			req := withRoomID(testutil.MakeRequest("GET", path, nil, nil), tc.roomID)
			w := httptest.NewRecorder()

			env.polls.GetPoll(w, req)

			testutil.AssertStatus(t, w, tc.wantStatus)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message == "" {
				t.Error("Expected error message")
			}
		})
	}
}

func mustIssue(t *testing.T, secret []byte, roomID string, expiresAt time.Time) string {
	t.Helper()
	token, err := auth.NewRoomTokens(secret).Issue(roomID, expiresAt)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return token
}

func TestSanitizeOptions(t *testing.T) {
	testCases := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{" a", "b ", "a", "  ", "c"}, []string{"a", "b", "c"}},
		{[]string{"A", "a"}, []string{"A", "a"}},
	}

	for _, tc := range testCases {
		if diff := cmp.Diff(tc.want, sanitizeOptions(tc.in)); diff != "" {
			t.Errorf("sanitizeOptions(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}
