package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresCollection stores records of one kind as JSONB documents in
// admin_records. Position keeps the insertion order stable.
type PostgresCollection[T Record[T]] struct {
	db     *pgxpool.Pool
	entity string
}

func NewPostgresCollection[T Record[T]](db *pgxpool.Pool, entity string) *PostgresCollection[T] {
	return &PostgresCollection[T]{db: db, entity: entity}
}

func (c *PostgresCollection[T]) All(ctx context.Context) ([]T, error) {
	rows, err := c.db.Query(ctx, `SELECT body FROM admin_records WHERE kind = $1 ORDER BY position`, c.entity)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", c.entity, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s record: %w", c.entity, err)
		}
		rec, err := c.decode(body)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s records: %w", c.entity, err)
	}
	return out, nil
}

func (c *PostgresCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	var body []byte
	err := c.db.QueryRow(ctx, `SELECT body FROM admin_records WHERE kind = $1 AND id = $2`, c.entity, id).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, models.NotFoundError(c.entity, id)
		}
		return zero, fmt.Errorf("get %s %s: %w", c.entity, id, err)
	}
	return c.decode(body)
}

func (c *PostgresCollection[T]) Insert(ctx context.Context, record T) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.entity, err)
	}
	_, err = c.db.Exec(ctx, `
		INSERT INTO admin_records (kind, id, position, body, updated_at)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM admin_records WHERE kind = $1), $3, NOW())`,
		c.entity, record.RecordID(), body)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.NewValidationError("id", c.entity+" "+record.RecordID()+" already exists")
		}
		return fmt.Errorf("insert %s %s: %w", c.entity, record.RecordID(), err)
	}
	return nil
}

// Update locks the row with SELECT ... FOR UPDATE for the duration of fn.
func (c *PostgresCollection[T]) Update(ctx context.Context, id string, fn UpdateFunc[T]) (T, error) {
	var zero T
	var next T
	err := runInTx(ctx, c.db, func(tx pgx.Tx) error {
		var body []byte
		err := tx.QueryRow(ctx, `SELECT body FROM admin_records WHERE kind = $1 AND id = $2 FOR UPDATE`, c.entity, id).Scan(&body)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NotFoundError(c.entity, id)
			}
			return fmt.Errorf("lock %s %s: %w", c.entity, id, err)
		}
		current, err := c.decode(body)
		if err != nil {
			return err
		}
		next, err = fn(current)
		if err != nil {
			return err
		}
		if next.RecordID() != id {
			return models.NewValidationError("id", "record id cannot change")
		}
		updated, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", c.entity, err)
		}
		if _, err := tx.Exec(ctx, `UPDATE admin_records SET body = $3, updated_at = NOW() WHERE kind = $1 AND id = $2`, c.entity, id, updated); err != nil {
			return fmt.Errorf("update %s %s: %w", c.entity, id, err)
		}
		return nil
	})
	if err != nil {
		return zero, err
	}
	return next, nil
}

func (c *PostgresCollection[T]) decode(body []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(body, &rec); err != nil {
		return rec, fmt.Errorf("decode %s record: %w", c.entity, err)
	}
	return rec, nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
