package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hasher produces and checks stored password digests.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// SHA256 hashes with a single unsalted SHA-256 round.
type SHA256 struct{}

// Hash returns the 64-character lower-case hex digest of password.
func (SHA256) Hash(password string) (string, error) {
	return Digest(password), nil
}

// Verify reports whether password hashes to encoded.
func (SHA256) Verify(password, encoded string) (bool, error) {
	computed := Digest(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(encoded)) == 1, nil
}

// Digest is the SHA-256 hex digest of s.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
