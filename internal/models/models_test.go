package models

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{NewValidationError("reason", "required"), KindValidation},
		{NotFoundError("kyc", "kyc-9"), KindNotFound},
		{&TransitionError{Entity: "kyc", ID: "kyc-1", From: "approved", To: "approved"}, KindInvalidTransition},
		{fmt.Errorf("fetch: %w", ErrAuthRequired), KindAuthRequired},
		{fmt.Errorf("fetch: %w", ErrTransient), KindTransient},
		{context.DeadlineExceeded, KindTransient},
		{context.Canceled, KindCanceled},
		{errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.err), "%v", tc.err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("reason", "is required")
	assert.Equal(t, "reason: is required", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPaymentDetailsValidate(t *testing.T) {
	require.NoError(t, Card(CardDetails{Brand: "visa", Last4: "4242"}).Validate())
	require.NoError(t, Crypto(CryptoDetails{Network: "bitcoin"}).Validate())

	mismatched := PaymentDetails{Method: domain.PaymentPayPal, Card: &CardDetails{}}
	assert.ErrorIs(t, mismatched.Validate(), ErrValidation)

	empty := PaymentDetails{Method: domain.PaymentPayPal}
	assert.ErrorIs(t, empty.Validate(), ErrValidation)

	unknown := PaymentDetails{Method: "cash", Card: &CardDetails{}}
	assert.ErrorIs(t, unknown.Validate(), ErrValidation)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestCloneDoesNotAlias(t *testing.T) {
	ticket := SupportTicket{
		ID:      "ticket-1",
		Replies: []Reply{{ID: "r1", Content: "hi", CreatedAt: time.Now()}},
	}
	clone := ticket.Clone()
	clone.Replies[0].Content = "changed"
	assert.Equal(t, "hi", ticket.Replies[0].Content)

	tx := Transaction{ID: "txn-1", Details: Card(CardDetails{Last4: "1111"}), RejectionReason: StringPtr("x")}
	txClone := tx.Clone()
	txClone.Details.Card.Last4 = "9999"
	*txClone.RejectionReason = "y"
	assert.Equal(t, "1111", tx.Details.Card.Last4)
	assert.Equal(t, "x", *tx.RejectionReason)

	open := SupportTicket{ID: "ticket-2"}
	assert.NotNil(t, open.Clone().Replies)
}
