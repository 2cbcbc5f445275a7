// Package internal contains helpers that are private to credstore: the record
// keyspace, email normalization and token generation.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - config: environment loading for the demo binary
//   - limiters: failed-attempt tracking and lockout records
//   - stores: user, token and remember-me records over kv.Adapter
//
// # What this package must NOT do
//
//   - Export types that appear in the public credstore API.
//   - Be imported by any package outside the credstore module.
package internal
