// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package live pushes tally updates to WebSocket subscribers.

A Hub holds the subscribers of this process. After a vote is admitted the
handler publishes the new tally through a Broadcaster: the Hub itself when
running alone, or a RedisRelay that sends the update over Redis pub/sub so
every instance's hub delivers it.

A subscription ends when the client disconnects or when the room expires;
at expiry the server sends a normal close frame.

Messages are JSON envelopes:

	{"type":"tally","payload":{"roomId":"...","totalVotes":3,"options":[...]}}
*/
package live
