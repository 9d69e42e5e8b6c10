// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides room capability tokens and voter fingerprints.

# Room Tokens

A room token is an HS256 JWT asserting "holder may view and vote in room R
until time T". Nothing is stored server-side; the room ID and expiry travel
inside the token and are trusted only after the signature checks out:

	tokens := auth.NewRoomTokens(secret)
	token, err := tokens.Issue(roomID, expiresAt)
	claims, err := tokens.Verify(token, roomID)

Verify fails with exactly one of ErrMalformedToken, ErrBadSignature,
ErrBadPayload, ErrIssuerMismatch, ErrRoomMismatch or ErrTokenExpired. A token
issued for one room never authorizes another.

# Voter Fingerprints

Two independent identity signals are derived per request:

	fp := fingerprinter.Derive(r)
	fingerprinter.SetCookie(w, fp)

VoterHash comes from the poll_voter_token cookie (generated on first contact),
IPHash from the client address. Both are HMAC-SHA256 digests keyed with the
server secret, so stored hashes cannot be reversed by dictionary search.
*/
package auth
