package stores

import (
	"context"

	"github.com/incidentmart/credstore/internal"
	"github.com/incidentmart/credstore/kv"
)

// RememberRecord is the single remembered sign-in identity.
type RememberRecord struct {
	Email     string `json:"email"`
	Timestamp int64  `json:"ts"` // epoch ms
}

type RememberStore struct {
	kv   *kv.Adapter
	keys internal.Keyspace
}

func NewRememberStore(adapter *kv.Adapter, keys internal.Keyspace) *RememberStore {
	return &RememberStore{kv: adapter, keys: keys}
}

func (s *RememberStore) Set(ctx context.Context, email string, ts int64) {
	s.kv.Write(ctx, s.keys.Remember(), RememberRecord{Email: email, Timestamp: ts})
}

func (s *RememberStore) Get(ctx context.Context) (RememberRecord, bool) {
	var rec RememberRecord
	if !s.kv.Read(ctx, s.keys.Remember(), &rec) || rec.Email == "" {
		return RememberRecord{}, false
	}
	return rec, true
}

func (s *RememberStore) Clear(ctx context.Context) {
	s.kv.Remove(ctx, s.keys.Remember())
}
