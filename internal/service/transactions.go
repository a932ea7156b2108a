package service

import (
	"context"
	"strings"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/ayo6706/brokerage-admin/internal/repository"
)

type TransactionService struct {
	*base
}

func (s *TransactionService) List(ctx context.Context, p query.Params) (models.Page[models.Transaction], error) {
	return list(ctx, s.base, s.store.Transactions, p, query.TransactionSchema)
}

func (s *TransactionService) Get(ctx context.Context, id string) (models.Transaction, error) {
	return get(ctx, s.base, s.store.Transactions, id)
}

// Approve completes a pending transaction.
func (s *TransactionService) Approve(ctx context.Context, id, actor string) (models.Transaction, error) {
	const action = "approve"
	if err := requireField("id", id); err != nil {
		return models.Transaction{}, s.fail(repository.EntityTransaction, action, err)
	}
	if err := requireField("actor", actor); err != nil {
		return models.Transaction{}, s.fail(repository.EntityTransaction, action, err)
	}
	return s.transition(ctx, id, actor, action, domain.TxStatusCompleted, "")
}

// Reject rejects a pending transaction. The reason is mandatory.
func (s *TransactionService) Reject(ctx context.Context, id, actor, reason string) (models.Transaction, error) {
	const action = "reject"
	if err := requireField("id", id); err != nil {
		return models.Transaction{}, s.fail(repository.EntityTransaction, action, err)
	}
	if err := requireField("actor", actor); err != nil {
		return models.Transaction{}, s.fail(repository.EntityTransaction, action, err)
	}
	if err := requireField("reason", reason); err != nil {
		return models.Transaction{}, s.fail(repository.EntityTransaction, action, err)
	}
	return s.transition(ctx, id, actor, action, domain.TxStatusRejected, strings.TrimSpace(reason))
}

func (s *TransactionService) transition(ctx context.Context, id, actor, action string, to domain.TransactionStatus, reason string) (models.Transaction, error) {
	var from domain.TransactionStatus
	now := s.now()
	tx, err := mutate(ctx, s.base, s.store.Transactions, id, func(t models.Transaction) (models.Transaction, error) {
		if !domain.CanTransitionTransaction(t.Status, to) {
			return t, &models.TransitionError{Entity: repository.EntityTransaction, ID: t.ID, From: string(t.Status), To: string(to)}
		}
		from = t.Status
		t.Status = to
		t.UpdatedAt = models.TimePtr(now)
		switch to {
		case domain.TxStatusCompleted:
			t.CompletedAt = models.TimePtr(now)
		case domain.TxStatusRejected:
			t.RejectionReason = models.StringPtr(reason)
		}
		return t, nil
	})
	if err != nil {
		return models.Transaction{}, s.fail(repository.EntityTransaction, action, err)
	}
	s.succeed(ctx, models.AuditEntry{
		Entity: repository.EntityTransaction, EntityID: id, Actor: actor, Action: action,
		From: string(from), To: string(to), Note: reason, At: now,
	})
	return tx, nil
}
