package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKycTransitions(t *testing.T) {
	assert.True(t, CanTransitionKyc(KycStatusPending, KycStatusApproved))
	assert.True(t, CanTransitionKyc(KycStatusPending, KycStatusRejected))
	assert.True(t, CanTransitionKyc(KycStatusWaitingForDocuments, KycStatusPending))

	assert.False(t, CanTransitionKyc(KycStatusApproved, KycStatusApproved))
	assert.False(t, CanTransitionKyc(KycStatusApproved, KycStatusRejected))
	assert.False(t, CanTransitionKyc(KycStatusRejected, KycStatusPending))
	assert.False(t, CanTransitionKyc(KycStatusWaitingForDocuments, KycStatusApproved))
}

func TestTransactionTransitions(t *testing.T) {
	assert.True(t, CanTransitionTransaction(TxStatusPending, TxStatusCompleted))
	assert.True(t, CanTransitionTransaction(TxStatusPending, TxStatusRejected))

	for _, terminal := range []TransactionStatus{TxStatusCompleted, TxStatusRejected, TxStatusFailed} {
		assert.True(t, terminal.IsTerminal())
		for _, next := range TransactionStatuses {
			assert.False(t, CanTransitionTransaction(terminal, next), "%s -> %s", terminal, next)
		}
	}
}

func TestUserTransitions(t *testing.T) {
	assert.True(t, CanTransitionUser(UserStatusActive, UserStatusInactive))
	assert.True(t, CanTransitionUser(UserStatusInactive, UserStatusActive))
	assert.True(t, CanTransitionUser(UserStatusActive, UserStatusSuspended))
	assert.True(t, CanTransitionUser(UserStatusInactive, UserStatusSuspended))

	assert.False(t, CanTransitionUser(UserStatusPendingVerification, UserStatusActive))
	assert.False(t, CanTransitionUser(UserStatusSuspended, UserStatusActive))
}

func TestTicketTransitions(t *testing.T) {
	cases := []struct {
		from, to TicketStatus
		want     bool
	}{
		{TicketStatusOpen, TicketStatusInProgress, true},
		{TicketStatusInProgress, TicketStatusResponded, true},
		{TicketStatusResponded, TicketStatusResolved, true},
		{TicketStatusResolved, TicketStatusClosed, true},
		{TicketStatusClosed, TicketStatusResolved, true},
		{TicketStatusResolved, TicketStatusOpen, true},
		{TicketStatusClosed, TicketStatusOpen, true},
		{TicketStatusOpen, TicketStatusResolved, true},
		{TicketStatusInProgress, TicketStatusResolved, true},
		{TicketStatusOpen, TicketStatusResponded, false},
		{TicketStatusOpen, TicketStatusClosed, false},
		{TicketStatusResponded, TicketStatusInProgress, false},
		{TicketStatusOpen, TicketStatusOpen, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransitionTicket(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestUnknownStatusesNeverTransition(t *testing.T) {
	assert.False(t, CanTransitionKyc(" PENDING ", "Approved"))
	assert.False(t, CanTransitionUser("ACTIVE", UserStatusInactive))
	assert.Equal(t, UnknownBucket, UserStatus("ACTIVE").Bucket())
	assert.False(t, CanTransitionTicket(TicketStatusOpen, "In_Progress"))
	assert.Empty(t, NextUserStatuses("ACTIVE"))
}

func TestNextStatusesSorted(t *testing.T) {
	assert.Equal(t, []TicketStatus{TicketStatusClosed, TicketStatusOpen}, NextTicketStatuses(TicketStatusResolved))
	assert.Empty(t, NextKycStatuses(KycStatusApproved))
	assert.Empty(t, NextKycStatuses("bogus"))
}

func TestStatusBucketDegradesUnknown(t *testing.T) {
	assert.Equal(t, "pending", KycStatusPending.Bucket())
	assert.Equal(t, UnknownBucket, KycStatus("escalated").Bucket())
	assert.Equal(t, UnknownBucket, TicketStatus("").Bucket())
	assert.Equal(t, UnknownBucket, UserStatus("banned").Bucket())
	assert.Equal(t, "failed", TxStatusFailed.Bucket())
}
