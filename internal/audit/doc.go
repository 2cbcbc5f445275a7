// Package audit implements async event dispatching for credential operations.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, zap, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured audit record with timestamp, type, email, client and metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; that responsibility belongs to the Store.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import credstore or any sibling internal package.
//   - Record passwords, hashes or tokens in an Event.
package audit
