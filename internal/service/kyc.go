package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/ayo6706/brokerage-admin/internal/repository"
	"go.uber.org/zap"
)

type KycService struct {
	*base
}

// ResubmitInput carries the documents a user uploaded after being asked
// for more.
type ResubmitInput struct {
	Documents []models.KycDocument `json:"documents"`
	Actor     string               `json:"-"`
}

func (in ResubmitInput) validate() error {
	if len(in.Documents) == 0 {
		return models.NewValidationError("documents", "at least one document is required")
	}
	for _, d := range in.Documents {
		if !d.Type.Valid() {
			return models.NewValidationError("documents.type", "unknown document type "+string(d.Type))
		}
		if strings.TrimSpace(d.URL) == "" {
			return models.NewValidationError("documents.url", "is required")
		}
	}
	return nil
}

func (s *KycService) List(ctx context.Context, p query.Params) (models.Page[models.KycRequest], error) {
	return list(ctx, s.base, s.store.Kyc, p, query.KycSchema)
}

func (s *KycService) Get(ctx context.Context, id string) (models.KycRequest, error) {
	return get(ctx, s.base, s.store.Kyc, id)
}

// Approve approves a pending request and marks the referenced user as
// verified. A user still in pending_verification becomes active.
func (s *KycService) Approve(ctx context.Context, id, actor string) (models.KycRequest, error) {
	const action = "approve"
	if err := requireField("id", id); err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}
	if err := requireField("actor", actor); err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}

	now := s.now()
	req, err := mutate(ctx, s.base, s.store.Kyc, id, func(k models.KycRequest) (models.KycRequest, error) {
		if !domain.CanTransitionKyc(k.Status, domain.KycStatusApproved) {
			return k, &models.TransitionError{Entity: repository.EntityKyc, ID: k.ID, From: string(k.Status), To: string(domain.KycStatusApproved)}
		}
		k.Status = domain.KycStatusApproved
		k.ApprovedBy = models.StringPtr(actor)
		k.UpdatedAt = now
		setPendingDocuments(k.Documents, domain.DocumentStatusVerified)
		return k, nil
	})
	if err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}
	s.succeed(ctx, models.AuditEntry{
		Entity: repository.EntityKyc, EntityID: id, Actor: actor, Action: action,
		From: string(domain.KycStatusPending), To: string(domain.KycStatusApproved), At: now,
	})
	s.verifyUser(ctx, req.User.ID, actor)
	return req, nil
}

// verifyUser applies the approval side effect to the referenced user. A
// missing user is a dangling reference and is only logged.
func (s *KycService) verifyUser(ctx context.Context, userID, actor string) {
	now := s.now()
	var from domain.UserStatus
	user, err := s.store.Users.Update(ctx, userID, func(u models.User) (models.User, error) {
		from = u.Status
		u.KycVerified = true
		if u.Status == domain.UserStatusPendingVerification {
			u.Status = domain.UserStatusActive
		}
		u.UpdatedAt = now
		return u, nil
	})
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Warn("kyc approved for unknown user", zap.String("user_id", userID))
		return
	}
	if err != nil {
		s.logger.Error("mark user kyc verified", zap.String("user_id", userID), zap.Error(err))
		return
	}
	s.succeed(ctx, models.AuditEntry{
		Entity: repository.EntityUser, EntityID: userID, Actor: actor, Action: "kyc_verified",
		From: string(from), To: string(user.Status), At: now,
	})
}

// Reject rejects a pending request. The reason is stored as the request notes.
func (s *KycService) Reject(ctx context.Context, id, actor, reason string) (models.KycRequest, error) {
	const action = "reject"
	if err := requireField("id", id); err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}
	if err := requireField("actor", actor); err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}
	if err := requireField("reason", reason); err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}
	reason = strings.TrimSpace(reason)

	now := s.now()
	req, err := mutate(ctx, s.base, s.store.Kyc, id, func(k models.KycRequest) (models.KycRequest, error) {
		if !domain.CanTransitionKyc(k.Status, domain.KycStatusRejected) {
			return k, &models.TransitionError{Entity: repository.EntityKyc, ID: k.ID, From: string(k.Status), To: string(domain.KycStatusRejected)}
		}
		k.Status = domain.KycStatusRejected
		k.RejectedBy = models.StringPtr(actor)
		k.Notes = models.StringPtr(reason)
		k.UpdatedAt = now
		setPendingDocuments(k.Documents, domain.DocumentStatusRejected)
		return k, nil
	})
	if err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}
	s.succeed(ctx, models.AuditEntry{
		Entity: repository.EntityKyc, EntityID: id, Actor: actor, Action: action,
		From: string(domain.KycStatusPending), To: string(domain.KycStatusRejected), Note: reason, At: now,
	})
	return req, nil
}

// Resubmit attaches new documents to a request waiting for them and puts it
// back in the review queue. A document replaces any earlier one of the same
// type.
func (s *KycService) Resubmit(ctx context.Context, id string, in ResubmitInput) (models.KycRequest, error) {
	const action = "resubmit"
	if err := requireField("id", id); err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}
	if err := requireField("actor", in.Actor); err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}
	if err := in.validate(); err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}

	now := s.now()
	req, err := mutate(ctx, s.base, s.store.Kyc, id, func(k models.KycRequest) (models.KycRequest, error) {
		if !domain.CanTransitionKyc(k.Status, domain.KycStatusPending) {
			return k, &models.TransitionError{Entity: repository.EntityKyc, ID: k.ID, From: string(k.Status), To: string(domain.KycStatusPending)}
		}
		for _, d := range in.Documents {
			doc := models.KycDocument{Type: d.Type, Status: domain.DocumentStatusPending, URL: strings.TrimSpace(d.URL)}
			replaced := false
			for i := range k.Documents {
				if k.Documents[i].Type == d.Type {
					k.Documents[i] = doc
					replaced = true
				}
			}
			if !replaced {
				k.Documents = append(k.Documents, doc)
			}
		}
		k.Status = domain.KycStatusPending
		k.UpdatedAt = now
		return k, nil
	})
	if err != nil {
		return models.KycRequest{}, s.fail(repository.EntityKyc, action, err)
	}
	s.succeed(ctx, models.AuditEntry{
		Entity: repository.EntityKyc, EntityID: id, Actor: in.Actor, Action: action,
		From: string(domain.KycStatusWaitingForDocuments), To: string(domain.KycStatusPending), At: now,
	})
	return req, nil
}

func setPendingDocuments(docs []models.KycDocument, status domain.DocumentStatus) {
	for i := range docs {
		if docs[i].Status == domain.DocumentStatusPending {
			docs[i].Status = status
		}
	}
}
