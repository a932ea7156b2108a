package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUsers() []models.User {
	return []models.User{
		{ID: "user-1", FullName: "Ada Obi", Status: domain.UserStatusActive, ReferredBy: models.StringPtr("user-9")},
		{ID: "user-2", FullName: "Ben Cole", Status: domain.UserStatusInactive},
		{ID: "user-3", FullName: "Cara Diaz", Status: domain.UserStatusPendingVerification},
	}
}

func TestMemoryCollection_AllPreservesOrderAndClones(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection(EntityUser, sampleUsers())

	all, err := c.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"user-1", "user-2", "user-3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	*all[0].ReferredBy = "mutated"
	all[0].FullName = "mutated"

	again, err := c.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", again.FullName)
	assert.Equal(t, "user-9", *again.ReferredBy)
}

func TestMemoryCollection_GetMissing(t *testing.T) {
	c := NewMemoryCollection(EntityUser, sampleUsers())
	_, err := c.Get(context.Background(), "user-404")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryCollection_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection(EntityUser, sampleUsers())
	err := c.Insert(ctx, models.User{ID: "user-1"})
	assert.ErrorIs(t, err, models.ErrValidation)

	require.NoError(t, c.Insert(ctx, models.User{ID: "user-4"}))
	all, err := c.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-4", all[3].ID)
}

func TestMemoryCollection_UpdateFailureLeavesRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection(EntityUser, sampleUsers())
	boom := errors.New("precondition failed")

	_, err := c.Update(ctx, "user-2", func(u models.User) (models.User, error) {
		u.Status = domain.UserStatusSuspended
		return u, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := c.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusInactive, got.Status)
}

func TestMemoryCollection_UpdateRejectsIDChange(t *testing.T) {
	c := NewMemoryCollection(EntityUser, sampleUsers())
	_, err := c.Update(context.Background(), "user-1", func(u models.User) (models.User, error) {
		u.ID = "user-99"
		return u, nil
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestMemoryCollection_UpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection(EntityUser, sampleUsers())

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Update(ctx, "user-3", func(u models.User) (models.User, error) {
				if u.Status != domain.UserStatusPendingVerification {
					return u, &models.TransitionError{Entity: EntityUser, ID: u.ID, From: string(u.Status), To: string(domain.UserStatusActive)}
				}
				u.Status = domain.UserStatusActive
				return u, nil
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestMemoryCollection_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewMemoryCollection(EntityUser, sampleUsers())
	_, err := c.All(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryAuditLog_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryAuditLog()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, log.Append(ctx, models.AuditEntry{ID: id}))
	}
	recent, err := log.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)

	all, err := log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
