package stores

import (
	"context"
	"time"

	"github.com/incidentmart/credstore/kv"
)

// TokenRecord maps one opaque token to the email it was issued for.
type TokenRecord struct {
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`           // epoch ms
	ExpiresAt int64  `json:"expiresAt,omitempty"` // epoch ms, 0 = never
}

// Expired reports whether the record is past its expiry at now.
func (r TokenRecord) Expired(now time.Time) bool {
	return r.ExpiresAt > 0 && now.UnixMilli() >= r.ExpiresAt
}

// TokenStore is one token namespace (verification or reset).
type TokenStore struct {
	kv  *kv.Adapter
	key func(token string) string
	now func() time.Time
}

func NewTokenStore(adapter *kv.Adapter, key func(string) string, now func() time.Time) *TokenStore {
	if now == nil {
		now = time.Now
	}
	return &TokenStore{kv: adapter, key: key, now: now}
}

// Save maps token to email. A zero ttl never expires.
func (s *TokenStore) Save(ctx context.Context, token, email string, ttl time.Duration) TokenRecord {
	now := s.now()
	rec := TokenRecord{Email: email, CreatedAt: now.UnixMilli()}
	if ttl > 0 {
		rec.ExpiresAt = now.Add(ttl).UnixMilli()
	}
	s.kv.Write(ctx, s.key(token), rec)
	return rec
}

// Lookup returns the email for token without consuming it. Expired tokens
// are removed and reported as absent.
func (s *TokenStore) Lookup(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	var rec TokenRecord
	if !s.kv.Read(ctx, s.key(token), &rec) || rec.Email == "" {
		return "", false
	}
	if rec.Expired(s.now()) {
		s.kv.Remove(ctx, s.key(token))
		return "", false
	}
	return rec.Email, true
}

// Delete consumes token.
func (s *TokenStore) Delete(ctx context.Context, token string) {
	s.kv.Remove(ctx, s.key(token))
}
