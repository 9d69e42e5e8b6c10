// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the poll rooms API.

# Handler Types

  - PollHandler: room creation and the token-gated results view
  - VotingHandler: vote submission and live publishing
  - LiveHandler: WebSocket subscription to a room's tally

Handlers receive their collaborators through constructors:

	gate := voting.NewGate(store)
	pollHandler := handlers.NewPollHandler(store, gate, tokens, fingerprints, cfg.PublicURL)

# Routes

	POST /polls                 → CreatePoll (201 with roomId, token, expiresAt, shareUrl)
	GET  /polls/{roomId}        → GetPoll
	POST /polls/{roomId}/vote   → CastVote
	GET  /polls/{roomId}/live   → Subscribe

Every room route requires the room token, from the token query parameter,
the vote body, or an Authorization: Bearer header.

# Status Codes

	400  malformed body or failed validation
	401  missing or invalid room token
	404  unknown room, or option not in the room
	409  this voter or network already voted; body is the current view
	410  room has expired
	500  storage failure

Error bodies are {"error": "...", "message": "..."}.
*/
package handlers
