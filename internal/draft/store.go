package draft

import (
	"errors"
	"sort"
	"sync"

	"github.com/hamyonapp/hamyon/internal/model"
)

// ErrNotFound is returned for draft ids that do not exist for the user.
// A confirmed or cancelled draft is gone for good: late callbacks against
// its id land here rather than reanimating it.
var ErrNotFound = errors.New("draft not found")

// userBucket holds one user's live drafts and their edit pointer. The mutex
// makes every operation for that user single-writer; separate users never
// contend on it.
type userBucket struct {
	drafts  map[string]*model.Draft
	pointer *model.EditPointer
	mu      sync.Mutex
}

// Store keeps every live draft in memory, keyed by (user id, draft id).
// Drafts never expire: an abandoned proposal stays until it is confirmed or
// cancelled, which Len makes visible to metrics.
type Store struct {
	users map[int64]*userBucket
	mu    sync.Mutex
}

// NewStore creates an empty draft store.
func NewStore() *Store {
	return &Store{users: make(map[int64]*userBucket)}
}

func (s *Store) bucket(userID int64) *userBucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.users[userID]
	if !ok {
		b = &userBucket{drafts: make(map[string]*model.Draft)}
		s.users[userID] = b
	}
	return b
}

// withUser runs fn while holding the user's bucket lock, serializing all
// draft operations for that user.
func (s *Store) withUser(userID int64, fn func(*userBucket) error) error {
	b := s.bucket(userID)
	b.mu.Lock()
	defer b.mu.Unlock()
	return fn(b)
}

// Get returns a snapshot of one draft.
func (s *Store) Get(userID int64, draftID string) (model.Draft, error) {
	var out model.Draft
	err := s.withUser(userID, func(b *userBucket) error {
		d, ok := b.drafts[draftID]
		if !ok {
			return ErrNotFound
		}
		out = *d
		return nil
	})
	return out, err
}

// Put inserts or replaces a draft.
func (s *Store) Put(d model.Draft) {
	_ = s.withUser(d.UserID, func(b *userBucket) error {
		stored := d
		b.drafts[d.ID] = &stored
		return nil
	})
}

// Delete removes a draft. Missing ids report ErrNotFound.
func (s *Store) Delete(userID int64, draftID string) error {
	return s.withUser(userID, func(b *userBucket) error {
		if _, ok := b.drafts[draftID]; !ok {
			return ErrNotFound
		}
		delete(b.drafts, draftID)
		return nil
	})
}

// Pointer returns the user's edit pointer, if one is set.
func (s *Store) Pointer(userID int64) (model.EditPointer, bool) {
	var (
		out model.EditPointer
		ok  bool
	)
	_ = s.withUser(userID, func(b *userBucket) error {
		if b.pointer != nil {
			out = *b.pointer
			ok = true
		}
		return nil
	})
	return out, ok
}

// UserDrafts lists a user's live drafts, oldest first.
func (s *Store) UserDrafts(userID int64) []model.Draft {
	var out []model.Draft
	_ = s.withUser(userID, func(b *userBucket) error {
		for _, d := range b.drafts {
			out = append(out, *d)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len counts live drafts across all users.
func (s *Store) Len() int {
	s.mu.Lock()
	buckets := make([]*userBucket, 0, len(s.users))
	for _, b := range s.users {
		buckets = append(buckets, b)
	}
	s.mu.Unlock()

	n := 0
	for _, b := range buckets {
		b.mu.Lock()
		n += len(b.drafts)
		b.mu.Unlock()
	}
	return n
}
