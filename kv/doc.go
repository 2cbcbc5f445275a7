// Package kv defines the persistent key-value contract the credential store is
// layered over, plus a JSON adapter and an in-process backend.
//
// # Architecture boundaries
//
// A [Backend] maps string keys to opaque byte values. The [Adapter] owns
// serialization and the "best-effort" policy: reads of absent or corrupt values
// yield the caller's fallback, failed writes are logged and dropped. Backends
// for Redis and SQLite live in the rediskv and sqlitekv sub-packages.
//
// # What this package must NOT do
//
//   - Import credstore or any internal package.
//   - Return persistence errors from [Adapter] methods.
package kv
