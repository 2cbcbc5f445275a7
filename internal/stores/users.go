package stores

import (
	"context"
	"sort"

	"github.com/incidentmart/credstore/internal"
	"github.com/incidentmart/credstore/kv"
)

// UserRecord is the persisted shape of a registered account.
type UserRecord struct {
	Name         string `json:"name"`
	Company      string `json:"company"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Verified     bool   `json:"verified"`
	CreatedAt    int64  `json:"createdAt"` // epoch ms
}

type UserStore struct {
	kv   *kv.Adapter
	keys internal.Keyspace
}

func NewUserStore(adapter *kv.Adapter, keys internal.Keyspace) *UserStore {
	return &UserStore{kv: adapter, keys: keys}
}

// Get looks up a user by case-insensitive email.
func (s *UserStore) Get(ctx context.Context, email string) (UserRecord, bool) {
	var rec UserRecord
	if !s.kv.Read(ctx, s.keys.User(email), &rec) {
		return UserRecord{}, false
	}
	return rec, true
}

// Put inserts or overwrites the record keyed by its normalized email.
func (s *UserStore) Put(ctx context.Context, rec UserRecord) {
	s.kv.Write(ctx, s.keys.User(rec.Email), rec)
}

// List returns every user ordered by creation time.
func (s *UserStore) List(ctx context.Context) []UserRecord {
	keys := s.kv.Keys(ctx, s.keys.UsersPrefix())
	users := make([]UserRecord, 0, len(keys))
	for _, key := range keys {
		var rec UserRecord
		if s.kv.Read(ctx, key, &rec) {
			users = append(users, rec)
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt == users[j].CreatedAt {
			return users[i].Email < users[j].Email
		}
		return users[i].CreatedAt < users[j].CreatedAt
	})
	return users
}
