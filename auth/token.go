// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"encoding/base64"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Fixed claims for the room token family
const (
	TokenIssuer   = "reacherr-polls"
	TokenAudience = "poll-room"
	TokenVersion  = 1

	ScopeView = "view"
	ScopeVote = "vote"

	subjectPrefix = "room:"
)

var (
	ErrMalformedToken = errors.New("invalid token format")
	ErrBadSignature   = errors.New("invalid token signature")
	ErrBadPayload     = errors.New("invalid token payload")
	ErrIssuerMismatch = errors.New("invalid token issuer")
	ErrRoomMismatch   = errors.New("token does not match room")
	ErrTokenExpired   = errors.New("token expired")
)

// RoomClaims is the payload of a room capability token
type RoomClaims struct {
	RoomID  string   `json:"rid"`
	Scope   []string `json:"scope"`
	Version int      `json:"ver"`
	jwt.RegisteredClaims
}

// RoomSubject returns the token subject bound to a room
func RoomSubject(roomID string) string {
	return subjectPrefix + roomID
}

// RoomTokens issues and verifies room capability tokens.
// The secret is fixed at construction and never mutated, so one instance
// is shared by all requests.
type RoomTokens struct {
	secret []byte
	now    func() time.Time
}

func NewRoomTokens(secret []byte) *RoomTokens {
	return &RoomTokens{secret: secret, now: time.Now}
}

// WithClock returns a copy of t that reads the current time from now
func (t *RoomTokens) WithClock(now func() time.Time) *RoomTokens {
	return &RoomTokens{secret: t.secret, now: now}
}

// Issue creates a token granting view and vote access to roomID until expiresAt.
// Signing with an HMAC key does not fail in practice; the error is returned
// for completeness.
func (t *RoomTokens) Issue(roomID string, expiresAt time.Time) (string, error) {
	now := jwt.NewNumericDate(t.now())

	claims := &RoomClaims{
		RoomID:  roomID,
		Scope:   []string{ScopeView, ScopeVote},
		Version: TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			Subject:   RoomSubject(roomID),
			IssuedAt:  now,
			NotBefore: now,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks that token was signed with our secret, belongs to roomID and
// is inside its validity window. Every failure is one of the Err* values above.
func (t *RoomTokens) Verify(token, roomID string) (*RoomClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	// The signature is checked before anything in the payload is trusted.
	// The encoded segment is compared as sent, so no alternate encoding of
	// the same bytes is accepted.
	sig, err := jwt.SigningMethodHS256.Sign(parts[0]+"."+parts[1], t.secret)
	if err != nil {
		return nil, ErrBadSignature
	}
	expected := base64.RawURLEncoding.EncodeToString(sig)
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, ErrBadSignature
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	var claims RoomClaims
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, ErrBadPayload
	}
	if claims.ExpiresAt == nil || claims.NotBefore == nil {
		return nil, ErrBadPayload
	}

	if claims.Issuer != TokenIssuer || !slices.Contains(claims.Audience, TokenAudience) {
		return nil, ErrIssuerMismatch
	}
	if claims.RoomID != roomID || claims.Subject != RoomSubject(roomID) {
		return nil, ErrRoomMismatch
	}

	now := t.now().Unix()
	if now < claims.NotBefore.Unix() || now >= claims.ExpiresAt.Unix() {
		return nil, ErrTokenExpired
	}

	return &claims, nil
}

// Reason returns a short label for a Verify result, for metrics and logs
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrBadPayload):
		return "bad_payload"
	case errors.Is(err, ErrIssuerMismatch):
		return "issuer_mismatch"
	case errors.Is(err, ErrRoomMismatch):
		return "room_mismatch"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	default:
		return "unknown"
	}
}
