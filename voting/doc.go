// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting admits votes into poll rooms and aggregates the results.

Gate.CastVote checks, in order: the room exists, the room is still open, the
option belongs to the room, and neither the voter hash nor the IP hash has
voted in the room. The pre-check is advisory; the store's uniqueness
constraints decide concurrent duplicates, and a constraint violation is
reported as ErrAlreadyVoted.

Tally is pure and used for every read, so a voter, a conflicting voter and a
live subscriber all see the same numbers.
*/
package voting
