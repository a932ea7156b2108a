package app

import (
	"context"
	"testing"

	"github.com/ayo6706/brokerage-admin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"", "debug", "INFO", "warn", "error"} {
		logger, err := NewLogger(level)
		require.NoError(t, err, level)
		require.NotNil(t, logger)
	}
	_, err := NewLogger("loud")
	assert.Error(t, err)
}

func TestGenerateDatasetIsSeeded(t *testing.T) {
	cfg := &config.Config{MockSeed: 42, MockUsers: 5, MockTransactions: 8, MockKycRequests: 3, MockTickets: 4}

	first, err := GenerateDataset(context.Background(), cfg)
	require.NoError(t, err)
	second, err := GenerateDataset(context.Background(), cfg)
	require.NoError(t, err)

	assert.Len(t, first.Users, 5)
	assert.Len(t, first.Transactions, 8)
	assert.Len(t, first.KycRequests, 3)
	assert.Len(t, first.Tickets, 4)
	assert.Equal(t, first.Transactions[0].ID, second.Transactions[0].ID)
	assert.True(t, first.Users[0].Balance.Equal(second.Users[0].Balance))
}

func TestGenerateDatasetRejectsBadCounts(t *testing.T) {
	_, err := GenerateDataset(context.Background(), &config.Config{MockUsers: 0, MockTransactions: 1, MockKycRequests: 1, MockTickets: 1})
	assert.Error(t, err)
}
