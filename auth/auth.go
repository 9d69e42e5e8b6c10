// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID creates a random identifier for database records
func NewID() string {
	return uuid.NewString()
}

// HashWithSecret creates a keyed one-way hash of an identity signal.
// The same value and secret always produce the same hash, so hashes can be
// compared for equality without ever storing the raw value.
func HashWithSecret(value string, secret []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
