package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/latency"
	"github.com/ayo6706/brokerage-admin/internal/mockdata"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/ayo6706/brokerage-admin/internal/repository"
	"github.com/ayo6706/brokerage-admin/internal/testutil/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestTransactions_PendingPageScenario(t *testing.T) {
	ctx := context.Background()
	ds, err := mockdata.New(mockdata.WithSeed(11)).Dataset(ctx, mockdata.Counts{Users: 50, Transactions: 100, KycRequests: 1, Tickets: 1})
	require.NoError(t, err)
	svc := New(repository.NewMemoryStore(ds), Options{})

	pending := 0
	for _, tx := range ds.Transactions {
		if tx.Status == domain.TxStatusPending {
			pending++
		}
	}

	page, err := svc.Transactions.List(ctx, query.Params{Page: 1, Limit: 10, Filters: map[string]string{"status": "pending"}})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(page.Items), 10)
	for _, tx := range page.Items {
		assert.Equal(t, domain.TxStatusPending, tx.Status)
	}
	assert.Equal(t, pending, page.Pagination.Total)
	assert.Equal(t, models.TotalPages(pending, 10), page.Pagination.TotalPages)
}

func TestTransactions_ApproveAndReject(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestServices(t)

	tx, err := svc.Transactions.Approve(ctx, "txn-1", testAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusCompleted, tx.Status)
	require.NotNil(t, tx.UpdatedAt)
	require.NotNil(t, tx.CompletedAt)
	assert.Equal(t, testNow, *tx.CompletedAt)

	_, err = svc.Transactions.Approve(ctx, "txn-1", testAdmin)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	tx, err = svc.Transactions.Reject(ctx, "txn-3", testAdmin, "  suspicious activity ")
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusRejected, tx.Status)
	require.NotNil(t, tx.RejectionReason)
	assert.Equal(t, "suspicious activity", *tx.RejectionReason)
	assert.Equal(t, domain.TxStatusRejected, mustGetTransaction(t, store, "txn-3").Status)
}

func TestTransactions_RejectWithoutReason(t *testing.T) {
	svc, store := newTestServices(t)
	before := snapshot(t, mustGetTransaction(t, store, "txn-1"))

	_, err := svc.Transactions.Reject(context.Background(), "txn-1", testAdmin, "   ")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reason", verr.Field)
	assert.Equal(t, before, snapshot(t, mustGetTransaction(t, store, "txn-1")))
}

func TestTransactions_NotFound(t *testing.T) {
	svc, _ := newTestServices(t)
	_, err := svc.Transactions.Approve(context.Background(), "txn-404", testAdmin)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.Transactions.Get(context.Background(), "txn-404")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestInvalidTransitionsLeaveRecordsUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestServices(t)

	cases := []struct {
		name   string
		read   func() any
		mutate func() error
	}{
		{
			name: "completed transaction",
			read: func() any { return mustGetTransaction(t, store, "txn-2") },
			mutate: func() error {
				_, err := svc.Transactions.Reject(ctx, "txn-2", testAdmin, "late")
				return err
			},
		},
		{
			name: "kyc waiting for documents",
			read: func() any { k, _ := store.Kyc.Get(ctx, "kyc-2"); return k },
			mutate: func() error {
				_, err := svc.Kyc.Approve(ctx, "kyc-2", testAdmin)
				return err
			},
		},
		{
			name: "pending user suspended directly to inactive",
			read: func() any { u, _ := store.Users.Get(ctx, "user-2"); return u },
			mutate: func() error {
				_, err := svc.Users.ChangeStatus(ctx, "user-2", UserStatusInput{Status: domain.UserStatusInactive, Actor: testAdmin})
				return err
			},
		},
		{
			name: "reply on closed ticket",
			read: func() any { tk, _ := store.Tickets.Get(ctx, "ticket-2"); return tk },
			mutate: func() error {
				_, err := svc.Tickets.Reply(ctx, "ticket-2", ReplyInput{Content: "hello", SenderID: testAdmin})
				return err
			},
		},
		{
			name: "open ticket straight to closed",
			read: func() any { tk, _ := store.Tickets.Get(ctx, "ticket-1"); return tk },
			mutate: func() error {
				_, err := svc.Tickets.ChangeStatus(ctx, "ticket-1", TicketStatusInput{Status: domain.TicketStatusClosed, Actor: testAdmin})
				return err
			},
		},
		{
			name: "assign closed ticket",
			read: func() any { tk, _ := store.Tickets.Get(ctx, "ticket-2"); return tk },
			mutate: func() error {
				_, err := svc.Tickets.Assign(ctx, "ticket-2", AssignInput{AdminID: "admin-2", Actor: testAdmin})
				return err
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := snapshot(t, tc.read())
			err := tc.mutate()
			assert.ErrorIs(t, err, models.ErrInvalidTransition)
			assert.Equal(t, before, snapshot(t, tc.read()))
		})
	}

	audit, err := svc.Audit.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, audit)
}

func TestKyc_ApproveScenario(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestServices(t)

	req, err := svc.Kyc.Approve(ctx, "kyc-1", testAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.KycStatusApproved, req.Status)
	require.NotNil(t, req.ApprovedBy)
	assert.Equal(t, testAdmin, *req.ApprovedBy)
	assert.Equal(t, domain.DocumentStatusVerified, req.Documents[0].Status)

	user, err := store.Users.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, user.KycVerified)
	assert.Equal(t, domain.UserStatusActive, user.Status)

	before := snapshot(t, req)
	_, err = svc.Kyc.Approve(ctx, "kyc-1", testAdmin)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	after, err := store.Kyc.Get(ctx, "kyc-1")
	require.NoError(t, err)
	assert.Equal(t, before, snapshot(t, after))
}

func TestKyc_ApproveWithDanglingUser(t *testing.T) {
	svc, _ := newTestServices(t)
	req, err := svc.Kyc.Approve(context.Background(), "kyc-3", testAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.KycStatusApproved, req.Status)
}

func TestKyc_RejectAndResubmit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	_, err := svc.Kyc.Reject(ctx, "kyc-1", testAdmin, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	req, err := svc.Kyc.Reject(ctx, "kyc-1", testAdmin, "blurry passport")
	require.NoError(t, err)
	assert.Equal(t, domain.KycStatusRejected, req.Status)
	require.NotNil(t, req.Notes)
	assert.Equal(t, "blurry passport", *req.Notes)
	require.NotNil(t, req.RejectedBy)

	_, err = svc.Kyc.Resubmit(ctx, "kyc-2", ResubmitInput{Actor: "user-1"})
	assert.ErrorIs(t, err, models.ErrValidation)

	req, err = svc.Kyc.Resubmit(ctx, "kyc-2", ResubmitInput{Actor: "user-1", Documents: []models.KycDocument{
		{Type: domain.DocumentPassport, URL: "https://docs.example.com/kyc-2/passport-v2.pdf"},
		{Type: domain.DocumentSelfie, URL: "https://docs.example.com/kyc-2/selfie.jpg"},
	}})
	require.NoError(t, err)
	assert.Equal(t, domain.KycStatusPending, req.Status)
	require.Len(t, req.Documents, 2)
	assert.Equal(t, "https://docs.example.com/kyc-2/passport-v2.pdf", req.Documents[0].URL)
	assert.Equal(t, domain.DocumentStatusPending, req.Documents[0].Status)
	assert.Equal(t, domain.DocumentSelfie, req.Documents[1].Type)
}

func TestUsers_ChangeStatusAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	user, err := svc.Users.ChangeStatus(ctx, "user-1", UserStatusInput{Status: domain.UserStatusSuspended, Actor: testAdmin, Reason: "chargebacks"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, user.Status)
	assert.Equal(t, testNow, user.UpdatedAt)

	_, err = svc.Users.ChangeStatus(ctx, "user-1", UserStatusInput{Status: "banned", Actor: testAdmin})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Users.Update(ctx, "user-1", UserUpdate{Actor: testAdmin})
	assert.ErrorIs(t, err, models.ErrValidation)

	vip := domain.UserTypeVIP
	twoFactor := true
	user, err = svc.Users.Update(ctx, "user-1", UserUpdate{UserType: &vip, TwoFactorEnabled: &twoFactor, Actor: testAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.UserTypeVIP, user.UserType)
	assert.True(t, user.TwoFactorEnabled)
	assert.Equal(t, "Nigeria", user.Country)

	audit, err := svc.Audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, audit, 2)
	assert.Equal(t, "update", audit[0].Action)
	assert.Equal(t, "chargebacks", audit[1].Note)
	assert.NotEmpty(t, audit[1].ID)
}

func TestTickets_ReplyMovesToResponded(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	ticket, err := svc.Tickets.Reply(ctx, "ticket-1", ReplyInput{Content: "We are on it", SenderID: testAdmin, SenderName: "Support Agent"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResponded, ticket.Status)
	require.Len(t, ticket.Replies, 1)
	assert.Equal(t, domain.SenderAdmin, ticket.Replies[0].Sender.Role)
	assert.NotEmpty(t, ticket.Replies[0].ID)
	require.Len(t, ticket.StatusHistory, 2)
	assert.Equal(t, domain.TicketStatusOpen, ticket.StatusHistory[0].From)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.StatusHistory[0].To)
	assert.Equal(t, domain.TicketStatusResponded, ticket.StatusHistory[1].To)
	assert.Equal(t, testNow, ticket.LastActivity)

	ticket, err = svc.Tickets.Reply(ctx, "ticket-1", ReplyInput{Content: "Thanks", SenderID: "user-1", Role: domain.SenderUser})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResponded, ticket.Status)
	assert.Len(t, ticket.Replies, 2)
	assert.Len(t, ticket.StatusHistory, 2)

	_, err = svc.Tickets.Reply(ctx, "ticket-1", ReplyInput{Content: "  ", SenderID: testAdmin})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestTickets_ResolveReopenAndAssign(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	ticket, err := svc.Tickets.ChangeStatus(ctx, "ticket-1", TicketStatusInput{Status: domain.TicketStatusResolved, Note: "refunded", Actor: testAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
	require.NotNil(t, ticket.ResolutionNote)
	assert.Equal(t, "refunded", *ticket.ResolutionNote)

	ticket, err = svc.Tickets.ChangeStatus(ctx, "ticket-2", TicketStatusInput{Status: domain.TicketStatusOpen, Actor: testAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Nil(t, ticket.ResolutionNote)
	require.Len(t, ticket.StatusHistory, 1)
	assert.Equal(t, domain.TicketStatusClosed, ticket.StatusHistory[0].From)

	ticket, err = svc.Tickets.Assign(ctx, "ticket-2", AssignInput{AdminID: "admin-3", Actor: testAdmin})
	require.NoError(t, err)
	require.NotNil(t, ticket.AssignedTo)
	assert.Equal(t, "admin-3", *ticket.AssignedTo)
}

func TestStatsAndReferences(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestServices(t)

	_, err := store.Users.Update(ctx, "user-1", func(u models.User) (models.User, error) {
		u.Status = "legacy"
		return u, nil
	})
	require.NoError(t, err)

	stats, err := svc.Stats.Compute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Users[domain.UnknownBucket])
	assert.Equal(t, 1, stats.Users[string(domain.UserStatusPendingVerification)])
	assert.Equal(t, 2, stats.PendingTransactions)
	assert.Equal(t, 2, stats.PendingKyc)
	assert.Equal(t, 1, stats.OpenTickets)
	assert.Equal(t, "120.5", stats.TotalUserBalance.String())
	assert.Equal(t, "250", stats.PendingVolume["USD"].String())
	assert.Equal(t, "5", stats.PendingVolume["EUR"].String())

	report, err := svc.References.DanglingReferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	require.Len(t, report.Transactions, 1)
	assert.Equal(t, "txn-3", report.Transactions[0].RecordID)
	require.Len(t, report.KycRequests, 1)
	assert.Equal(t, "user-77", report.KycRequests[0].UserID)
	assert.Empty(t, report.Tickets)
}

func TestLatencyFailureSurfacesAsTransient(t *testing.T) {
	store := repository.NewMemoryStore(fixture.Dataset())
	svc := New(store, Options{Latency: latency.NewRandom(0, 0, 1, 1)})

	_, err := svc.Transactions.Approve(context.Background(), "txn-1", testAdmin)
	assert.True(t, errors.Is(err, models.ErrTransient))
	assert.Equal(t, domain.TxStatusPending, mustGetTransaction(t, store, "txn-1").Status)

	_, err = svc.Users.List(context.Background(), query.Params{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, models.ErrTransient)
}

func TestListValidatesBeforeWaiting(t *testing.T) {
	store := repository.NewMemoryStore(fixture.Dataset())
	svc := New(store, Options{Latency: latency.NewRandom(time.Hour, time.Hour, 0, 1)})

	_, err := svc.Users.List(context.Background(), query.Params{Page: 1, Limit: 0})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAuditRecordWithoutTimestamp(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryStore(fixture.Dataset()), Options{})

	require.NotPanics(t, func() {
		require.NoError(t, svc.Audit.Record(ctx, models.AuditEntry{
			Entity: repository.EntityTicket, EntityID: "ticket-1", Actor: "admin-1", Action: "assign",
		}))
	})

	entries, err := svc.Audit.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].At.IsZero())
	assert.Len(t, entries[0].ID, 26)
}
