package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/db"
	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/mockdata"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/testutil/dblock"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = godotenv.Load("../../.env")
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}
	dblock.Acquire(t)

	ctx := context.Background()
	pool, err := db.Connect(ctx, os.Getenv("DATABASE_URL"), 0)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(ctx, pool))
	require.NoError(t, Truncate(ctx, pool))
	return pool
}

func TestPostgresStore_SeedAndUpdate(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	ds, err := mockdata.New(mockdata.WithSeed(3), mockdata.WithClock(func() time.Time { return now })).
		Dataset(ctx, mockdata.Counts{Users: 5, Transactions: 5, KycRequests: 5, Tickets: 5})
	require.NoError(t, err)

	store := NewPostgresStore(pool)
	seeded, err := store.Seed(ctx, ds)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = store.Seed(ctx, ds)
	require.NoError(t, err)
	assert.False(t, seeded)

	txs, err := store.Transactions.All(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 5)
	for i := range txs {
		assert.Equal(t, ds.Transactions[i].ID, txs[i].ID)
		assert.True(t, ds.Transactions[i].Amount.Equal(txs[i].Amount))
		assert.Equal(t, ds.Transactions[i].Details.Method, txs[i].Details.Method)
	}

	updated, err := store.Users.Update(ctx, "user-1", func(u models.User) (models.User, error) {
		u.Status = domain.UserStatusSuspended
		return u, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, updated.Status)

	got, err := store.Users.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, got.Status)

	_, err = store.Users.Get(ctx, "user-404")
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = store.Users.Insert(ctx, models.User{ID: "user-1"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestPostgresAuditLog(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	log := NewPostgresAuditLog(pool)

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, log.Append(ctx, models.AuditEntry{ID: "01", Entity: EntityUser, EntityID: "user-1", Actor: "admin-1", Action: "status", From: "active", To: "suspended", At: base}))
	require.NoError(t, log.Append(ctx, models.AuditEntry{ID: "02", Entity: EntityTicket, EntityID: "ticket-1", Actor: "admin-1", Action: "assign", At: base.Add(time.Minute)}))

	recent, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "02", recent[0].ID)
	assert.Equal(t, "", recent[0].From)
	assert.Equal(t, "suspended", recent[1].To)
}
