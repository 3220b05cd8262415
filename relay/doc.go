// Package relay is a hub of named JSON channels built on the rx core.
//
// Each channel is an rx.Subject holding the latest published value. Watchers
// get the current value on subscribe and every distinct change after it,
// debounced per watcher, through the chain
//
//	SkipNullable -> RemoveDuplicates -> Debounce -> Instrument -> OnReceive
//
// All channel state lives on one rx.Loop, so the hub is safe to use from
// concurrent HTTP handlers. RegisterRoutes exposes the hub over HTTP with
// server-sent event streams for watchers.
package relay
