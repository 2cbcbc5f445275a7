// Package limiters tracks failed sign-in attempts and timed lockouts per email.
//
// # Limiters
//
//   - [LockoutTracker]: failed-attempt log plus an expiring lockout record.
//
// All tracker methods are nil-safe: calling any method on a nil receiver is a
// no-op that reports "no attempts, not locked".
//
// # Architecture boundaries
//
// The tracker counts and records. Whether a failure should lock an account,
// and whether a locked account may attempt sign-in, is decided by the caller.
// Policy thresholds come from [LockoutConfig] supplied at construction time.
//
// # What this package must NOT do
//
//   - Import credstore.
//   - Verify credentials.
//   - Serialize concurrent callers; the owning store holds the write lock.
package limiters
