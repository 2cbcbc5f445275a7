// Package credstore is a credential and sign-in state store: registration,
// email verification, authentication, failed-attempt tracking with timed
// lockout, remember-me and password reset, all persisted as JSON records in
// a pluggable key-value backend.
//
// The package is designed for concurrent use: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// credstore is the public surface. It exposes [Engine], [Builder], [Config],
// sentinel errors and value types (User, LockoutInfo, SignInResult, ...).
// Record layout, token generation, lockout bookkeeping and audit dispatch live
// under internal/ and are never exported. Storage is reached only through a
// [kv.Backend] handed to the Builder.
//
// # What this package must NOT do
//
//   - Reach a process-wide store; every Engine owns the backend it was built with.
//   - Return persistence failures to callers. A failed read behaves as "absent"
//     and a failed write is logged and dropped.
//   - Enforce lockout inside [Engine.Authenticate]. The lockout gate belongs to
//     [Engine.SignIn] and to callers that orchestrate their own sign-in.
//   - Send real email; [Mailer] implementations decide what delivery means.
package credstore
