// Package service holds the admin operations for each entity. Every
// operation validates its input, waits on the injected latency simulator,
// then acts on the repository.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/latency"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/observability"
	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/ayo6706/brokerage-admin/internal/repository"
	"go.uber.org/zap"
)

// Options carries the collaborators shared by every admin service.
type Options struct {
	Latency latency.Simulator
	Logger  *zap.Logger
	Clock   func() time.Time
}

// Services groups the admin services built over one store.
type Services struct {
	Users        *UserService
	Transactions *TransactionService
	Kyc          *KycService
	Tickets      *TicketService
	Stats        *StatsService
	References   *ReferenceService
	Audit        *AuditService
}

func New(store *repository.Store, opts Options) *Services {
	b := newBase(store, opts)
	return &Services{
		Users:        &UserService{base: b},
		Transactions: &TransactionService{base: b},
		Kyc:          &KycService{base: b},
		Tickets:      &TicketService{base: b},
		Stats:        &StatsService{base: b},
		References:   &ReferenceService{base: b},
		Audit:        b.audit,
	}
}

type base struct {
	store   *repository.Store
	latency latency.Simulator
	logger  *zap.Logger
	clock   func() time.Time
	audit   *AuditService
}

func newBase(store *repository.Store, opts Options) *base {
	if opts.Latency == nil {
		opts.Latency = latency.None{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &base{
		store:   store,
		latency: opts.Latency,
		logger:  opts.Logger,
		clock:   opts.Clock,
		audit:   NewAuditService(store.Audit, opts.Logger),
	}
}

func (b *base) now() time.Time {
	return b.clock().UTC()
}

// fail counts a rejected mutation and returns err unchanged.
func (b *base) fail(entity, action string, err error) error {
	observability.IncrementMutation(entity, action, string(models.Classify(err)))
	return err
}

// succeed counts a mutation and appends it to the audit trail. An audit
// failure is logged; the mutation itself has already been applied.
func (b *base) succeed(ctx context.Context, entry models.AuditEntry) {
	observability.IncrementMutation(entry.Entity, entry.Action, "success")
	if err := b.audit.Record(ctx, entry); err != nil {
		b.logger.Error("audit write failed",
			zap.String("entity", entry.Entity),
			zap.String("entity_id", entry.EntityID),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

func list[T repository.Record[T]](ctx context.Context, b *base, c repository.Collection[T], p query.Params, s query.Schema[T]) (models.Page[T], error) {
	if err := query.Validate(p, s); err != nil {
		return models.Page[T]{}, err
	}
	if err := b.latency.Wait(ctx); err != nil {
		return models.Page[T]{}, err
	}
	records, err := c.All(ctx)
	if err != nil {
		return models.Page[T]{}, err
	}
	return query.Run(records, p, s)
}

func get[T repository.Record[T]](ctx context.Context, b *base, c repository.Collection[T], id string) (T, error) {
	var zero T
	if err := requireField("id", id); err != nil {
		return zero, err
	}
	if err := b.latency.Wait(ctx); err != nil {
		return zero, err
	}
	return c.Get(ctx, id)
}

func mutate[T repository.Record[T]](ctx context.Context, b *base, c repository.Collection[T], id string, fn repository.UpdateFunc[T]) (T, error) {
	var zero T
	if err := b.latency.Wait(ctx); err != nil {
		return zero, err
	}
	return c.Update(ctx, id, fn)
}

func requireField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return models.NewValidationError(field, "is required")
	}
	return nil
}
