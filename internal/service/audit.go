package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/repository"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// AuditService writes immutable audit trail entries.
type AuditService struct {
	log    repository.AuditLog
	logger *zap.Logger
}

func NewAuditService(log repository.AuditLog, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{log: log, logger: logger}
}

// Record stores a single audit entry, assigning a ULID when ID is empty
// and the current time when At is zero.
func (s *AuditService) Record(ctx context.Context, entry models.AuditEntry) error {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	if entry.ID == "" {
		id, err := ulid.New(ulid.Timestamp(entry.At), ulid.DefaultEntropy())
		if err != nil {
			return fmt.Errorf("audit entry id: %w", err)
		}
		entry.ID = id.String()
	}
	if err := s.log.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	s.logger.Info("admin action",
		zap.String("audit_id", entry.ID),
		zap.String("entity", entry.Entity),
		zap.String("entity_id", entry.EntityID),
		zap.String("actor", entry.Actor),
		zap.String("action", entry.Action),
		zap.String("from", entry.From),
		zap.String("to", entry.To),
	)
	return nil
}

// Recent returns the latest entries, newest first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit < 0 || limit > 500 {
		return nil, models.NewValidationError("limit", "must be between 0 and 500")
	}
	return s.log.Recent(ctx, limit)
}
