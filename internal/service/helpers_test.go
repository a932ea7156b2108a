package service

import (
	"context"
	"testing"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/repository"
	"github.com/ayo6706/brokerage-admin/internal/testutil/fixture"
	"github.com/stretchr/testify/require"
)

const testAdmin = "admin-1"

var testNow = fixture.Now

func newTestServices(t *testing.T) (*Services, *repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore(fixture.Dataset())
	return New(store, Options{Clock: func() time.Time { return testNow }}), store
}

func mustGetTransaction(t *testing.T, store *repository.Store, id string) models.Transaction {
	t.Helper()
	tx, err := store.Transactions.Get(context.Background(), id)
	require.NoError(t, err)
	return tx
}
