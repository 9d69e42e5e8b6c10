// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreatePollRequest: question, options, duration preset
  - CastVoteRequest: token, optionId

# Response Types

  - CreatePollResponse: roomId, token, expiresAt, shareUrl
  - PollRoomView: question, totals and per-option results for one voter
  - TallyUpdate: anonymous totals pushed to live subscribers
  - ErrorResponse: error, message

# Domain Types

  - PollRoom: question and expiry; immutable after creation
  - PollOption: option text with a stable 0-based display order
  - Vote: one recorded vote with its two identity hashes

Voter and IP hashes are tagged json:"-" and never leave the server.

# Durations

	DurationHour = "1h"
	DurationDay  = "24h"
	DurationWeek = "7d"

PollDurations maps each preset to a time.Duration.
*/
package models
