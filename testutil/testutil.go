// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-pick-rooms/auth"
	"github.com/danielhkuo/quickly-pick-rooms/cliparse"
	"github.com/danielhkuo/quickly-pick-rooms/db"
	"github.com/danielhkuo/quickly-pick-rooms/models"
)

// TestSecret keys tokens and hashes in tests
const TestSecret = "test-poll-secret"

// SetupTestDB creates a fresh SQLite database with the full schema. It is
// removed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.DialectSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a store over a fresh test database
func SetupTestStore(t *testing.T) *db.SQLStore {
	t.Helper()
	return db.NewSQLStore(SetupTestDB(t), db.DialectSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "test.db",
		DatabaseType:  db.DialectSQLite,
		PollSecret:    TestSecret,
		PublicURL:     "https://polls.test",
		TrustProxy:    true,
		VoteRateLimit: 1000,
	}
}

// CreateTestRoom creates a room expiring at expiresAt with the given option
// texts and returns the room ID and option IDs in order
func CreateTestRoom(t *testing.T, store db.Store, expiresAt time.Time, texts ...string) (string, []string) {
	t.Helper()

	room := models.PollRoom{
		ID:        auth.NewID(),
		Question:  "Which one?",
		ExpiresAt: expiresAt.UTC().Truncate(time.Second),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	options := make([]models.PollOption, len(texts))
	optionIDs := make([]string, len(texts))
	for i, text := range texts {
		options[i] = models.PollOption{ID: auth.NewID(), RoomID: room.ID, Text: text, Order: i}
		optionIDs[i] = options[i].ID
	}

	if err := store.CreateRoom(context.Background(), room, options); err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}

	return room.ID, optionIDs
}

// IssueTestToken signs a room token with TestSecret
func IssueTestToken(t *testing.T, roomID string, expiresAt time.Time) string {
	t.Helper()

	token, err := auth.NewRoomTokens([]byte(TestSecret)).Issue(roomID, expiresAt)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
