// Package password turns plaintext passwords into stored digests and checks
// candidates against them.
//
// Two [Hasher] implementations are provided:
//
//   - [SHA256]: unsalted SHA-256, lower-case hex. Deterministic and fixed-length;
//     this is what the demo store persists by default. Not production-grade.
//   - [Argon2]: salted argon2id in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (minimum
// length, confirmation) is enforced by the credential store.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords.
//   - Import any other credstore package.
//   - Log plaintext passwords.
package password
