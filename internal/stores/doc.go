// Package stores persists the credential store's long-lived records (users,
// remember-me) and its single-use tokens (email verification, password reset)
// as JSON values over a kv.Adapter.
//
// # Design
//
// Every record lives under its own key, so a read-modify-write only ever
// rewrites one user or one token. Tokens carry an optional expiry; an expired
// token is deleted on read and reported as absent. Single-use is enforced by
// the caller deleting the token after a successful consume.
//
// # Architecture boundaries
//
// This package owns persistence only. It does NOT generate tokens, hash
// passwords, or decide whether an operation is allowed.
//
// # What this package must NOT do
//
//   - Import credstore.
//   - Return persistence errors: the kv.Adapter already degrades them to "absent".
package stores
