package repository

import (
	"context"
	"fmt"

	"github.com/ayo6706/brokerage-admin/internal/mockdata"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entity names used for collection kinds, errors and audit entries.
const (
	EntityUser        = "user"
	EntityTransaction = "transaction"
	EntityKyc         = "kyc_request"
	EntityTicket      = "support_ticket"
)

// Store groups the collections the admin services operate on.
type Store struct {
	Users        Collection[models.User]
	Transactions Collection[models.Transaction]
	Kyc          Collection[models.KycRequest]
	Tickets      Collection[models.SupportTicket]
	Audit        AuditLog
}

// NewMemoryStore builds an in-process store seeded with dataset.
func NewMemoryStore(dataset mockdata.Dataset) *Store {
	return &Store{
		Users:        NewMemoryCollection(EntityUser, dataset.Users),
		Transactions: NewMemoryCollection(EntityTransaction, dataset.Transactions),
		Kyc:          NewMemoryCollection(EntityKyc, dataset.KycRequests),
		Tickets:      NewMemoryCollection(EntityTicket, dataset.Tickets),
		Audit:        NewMemoryAuditLog(),
	}
}

// NewPostgresStore builds a store backed by admin_records and admin_audit_log.
func NewPostgresStore(db *pgxpool.Pool) *Store {
	return &Store{
		Users:        NewPostgresCollection[models.User](db, EntityUser),
		Transactions: NewPostgresCollection[models.Transaction](db, EntityTransaction),
		Kyc:          NewPostgresCollection[models.KycRequest](db, EntityKyc),
		Tickets:      NewPostgresCollection[models.SupportTicket](db, EntityTicket),
		Audit:        NewPostgresAuditLog(db),
	}
}

// Seed inserts every record of dataset into an empty store. It is a no-op
// when users already exist.
func (s *Store) Seed(ctx context.Context, dataset mockdata.Dataset) (bool, error) {
	existing, err := s.Users.All(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	if err := insertAll(ctx, s.Users, dataset.Users); err != nil {
		return false, err
	}
	if err := insertAll(ctx, s.Transactions, dataset.Transactions); err != nil {
		return false, err
	}
	if err := insertAll(ctx, s.Kyc, dataset.KycRequests); err != nil {
		return false, err
	}
	if err := insertAll(ctx, s.Tickets, dataset.Tickets); err != nil {
		return false, err
	}
	return true, nil
}

func insertAll[T Record[T]](ctx context.Context, c Collection[T], records []T) error {
	for _, r := range records {
		if err := c.Insert(ctx, r); err != nil {
			return fmt.Errorf("seed %s: %w", r.RecordID(), err)
		}
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS admin_records (
	kind       TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	position   BIGINT      NOT NULL,
	body       JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (kind, id)
);
CREATE INDEX IF NOT EXISTS admin_records_kind_position_idx ON admin_records (kind, position);
CREATE TABLE IF NOT EXISTS admin_audit_log (
	id         TEXT PRIMARY KEY,
	entity     TEXT        NOT NULL,
	entity_id  TEXT        NOT NULL,
	actor      TEXT        NOT NULL,
	action     TEXT        NOT NULL,
	prev_state TEXT,
	next_state TEXT,
	note       TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS admin_audit_log_entity_idx ON admin_audit_log (entity, entity_id);
`

// EnsureSchema creates the tables used by the Postgres store.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Truncate removes all admin records and audit entries.
func Truncate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, `TRUNCATE admin_records, admin_audit_log`); err != nil {
		return fmt.Errorf("truncate admin tables: %w", err)
	}
	return nil
}
