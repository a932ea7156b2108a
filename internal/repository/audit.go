package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog is an append-only trail of admin mutations.
type AuditLog interface {
	Append(ctx context.Context, entry models.AuditEntry) error
	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

type MemoryAuditLog struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func NewMemoryAuditLog() *MemoryAuditLog {
	return &MemoryAuditLog{}
}

func (l *MemoryAuditLog) Append(ctx context.Context, entry models.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

func (l *MemoryAuditLog) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.AuditEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}

type PostgresAuditLog struct {
	db *pgxpool.Pool
}

func NewPostgresAuditLog(db *pgxpool.Pool) *PostgresAuditLog {
	return &PostgresAuditLog{db: db}
}

func (l *PostgresAuditLog) Append(ctx context.Context, e models.AuditEntry) error {
	_, err := l.db.Exec(ctx, `
		INSERT INTO admin_audit_log (id, entity, entity_id, actor, action, prev_state, next_state, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Entity, e.EntityID, e.Actor, e.Action, textParam(e.From), textParam(e.To), textParam(e.Note), e.At)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (l *PostgresAuditLog) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.Query(ctx, `
		SELECT id, entity, entity_id, actor, action,
		       COALESCE(prev_state, ''), COALESCE(next_state, ''), COALESCE(note, ''), created_at
		FROM admin_audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()

	var out []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.Actor, &e.Action, &e.From, &e.To, &e.Note, &e.At); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func textParam(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
