package internal

import (
	"regexp"
	"strings"
)

// DefaultKeyPrefix namespaces every record the store writes.
const DefaultKeyPrefix = "auth:"

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// ValidEmail applies the deliberately loose "something@something.tld" check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail is the case-insensitive identity of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Keyspace builds per-record keys under a shared prefix.
type Keyspace struct {
	prefix string
}

func NewKeyspace(prefix string) Keyspace {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return Keyspace{prefix: prefix}
}

func (k Keyspace) Prefix() string { return k.prefix }

func (k Keyspace) UsersPrefix() string    { return k.prefix + "users:" }
func (k Keyspace) AttemptsPrefix() string { return k.prefix + "attempts:" }
func (k Keyspace) LockoutPrefix() string  { return k.prefix + "lockout:" }
func (k Keyspace) VerifyPrefix() string   { return k.prefix + "verify:" }
func (k Keyspace) ResetPrefix() string    { return k.prefix + "reset:" }

func (k Keyspace) User(email string) string     { return k.UsersPrefix() + NormalizeEmail(email) }
func (k Keyspace) Attempts(email string) string { return k.AttemptsPrefix() + NormalizeEmail(email) }
func (k Keyspace) Lockout(email string) string  { return k.LockoutPrefix() + NormalizeEmail(email) }
func (k Keyspace) Verify(token string) string   { return k.VerifyPrefix() + token }
func (k Keyspace) Reset(token string) string    { return k.ResetPrefix() + token }
func (k Keyspace) Remember() string             { return k.prefix + "remember" }
