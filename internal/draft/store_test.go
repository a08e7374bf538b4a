package draft

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hamyonapp/hamyon/internal/model"
)

func testDraft(userID int64, id string) model.Draft {
	now := time.Now()
	return model.Draft{
		ID:        id,
		UserID:    userID,
		Type:      model.TxExpense,
		Category:  "food",
		Amount:    10_000,
		State:     model.StateProposed,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStoreGetPutDelete(t *testing.T) {
	s := NewStore()

	_, err := s.Get(1, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	d := testDraft(1, "d1")
	s.Put(d)

	got, err := s.Get(1, "d1")
	require.NoError(t, err)
	assert.Equal(t, "food", got.Category)

	// Snapshots are copies: mutating them never touches the store.
	got.Category = "transport"
	again, err := s.Get(1, "d1")
	require.NoError(t, err)
	assert.Equal(t, "food", again.Category)

	require.NoError(t, s.Delete(1, "d1"))
	assert.ErrorIs(t, s.Delete(1, "d1"), ErrNotFound)
}

func TestStoreUsersAreIndependent(t *testing.T) {
	s := NewStore()
	s.Put(testDraft(1, "d1"))

	// The same draft id under another user does not exist.
	_, err := s.Get(2, "d1")
	assert.ErrorIs(t, err, ErrNotFound)

	s.Put(testDraft(2, "d1"))
	require.NoError(t, s.Delete(2, "d1"))

	_, err = s.Get(1, "d1")
	assert.NoError(t, err)
}

func TestStorePointer(t *testing.T) {
	s := NewStore()

	_, ok := s.Pointer(1)
	assert.False(t, ok)

	require.NoError(t, s.withUser(1, func(b *userBucket) error {
		b.pointer = &model.EditPointer{DraftID: "d1", Field: model.FieldAmount}
		return nil
	}))

	ptr, ok := s.Pointer(1)
	require.True(t, ok)
	assert.Equal(t, "d1", ptr.DraftID)
	assert.Equal(t, model.FieldAmount, ptr.Field)

	// Pointers are per user.
	_, ok = s.Pointer(2)
	assert.False(t, ok)
}

func TestStoreUserDraftsOrdered(t *testing.T) {
	s := NewStore()

	base := time.Now()
	for i := 0; i < 3; i++ {
		d := testDraft(1, fmt.Sprintf("d%d", i))
		d.CreatedAt = base.Add(time.Duration(2-i) * time.Minute)
		s.Put(d)
	}

	drafts := s.UserDrafts(1)
	require.Len(t, drafts, 3)
	assert.Equal(t, "d2", drafts[0].ID)
	assert.Equal(t, "d1", drafts[1].ID)
	assert.Equal(t, "d0", drafts[2].ID)

	assert.Empty(t, s.UserDrafts(42))
}

func TestStoreLen(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Len())

	s.Put(testDraft(1, "a"))
	s.Put(testDraft(1, "b"))
	s.Put(testDraft(2, "c"))
	assert.Equal(t, 3, s.Len())

	require.NoError(t, s.Delete(1, "a"))
	assert.Equal(t, 2, s.Len())
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()

	var g errgroup.Group
	for u := int64(1); u <= 8; u++ {
		userID := u
		g.Go(func() error {
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("d%d", i)
				s.Put(testDraft(userID, id))
				if _, err := s.Get(userID, id); err != nil {
					return err
				}
				if err := s.Delete(userID, id); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 0, s.Len())
}
