package service

import (
	"context"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/shopspring/decimal"
)

// Stats is the dashboard summary across all four collections. Counts are
// keyed by status bucket, so undefined statuses land under "unknown".
type Stats struct {
	Users               map[string]int             `json:"users"`
	Transactions        map[string]int             `json:"transactions"`
	KycRequests         map[string]int             `json:"kycRequests"`
	Tickets             map[string]int             `json:"tickets"`
	TotalUserBalance    decimal.Decimal            `json:"totalUserBalance"`
	PendingVolume       map[string]decimal.Decimal `json:"pendingVolume"`
	PendingKyc          int                        `json:"pendingKyc"`
	PendingTransactions int                        `json:"pendingTransactions"`
	OpenTickets         int                        `json:"openTickets"`
	GeneratedAt         time.Time                  `json:"generatedAt"`
}

type StatsService struct {
	*base
}

func (s *StatsService) Compute(ctx context.Context) (Stats, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return Stats{}, err
	}
	return s.Snapshot(ctx)
}

// Snapshot computes Stats without simulated latency. Workers use it.
func (s *StatsService) Snapshot(ctx context.Context) (Stats, error) {
	users, err := s.store.Users.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	txs, err := s.store.Transactions.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	kyc, err := s.store.Kyc.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	tickets, err := s.store.Tickets.All(ctx)
	if err != nil {
		return Stats{}, err
	}

	out := Stats{
		Users:            countBy(users, func(u models.User) string { return u.Status.Bucket() }),
		Transactions:     countBy(txs, func(t models.Transaction) string { return t.Status.Bucket() }),
		KycRequests:      countBy(kyc, func(k models.KycRequest) string { return k.Status.Bucket() }),
		Tickets:          countBy(tickets, func(t models.SupportTicket) string { return t.Status.Bucket() }),
		TotalUserBalance: decimal.Zero,
		PendingVolume:    map[string]decimal.Decimal{},
		GeneratedAt:      s.now(),
	}
	for _, u := range users {
		out.TotalUserBalance = out.TotalUserBalance.Add(u.Balance)
	}
	for _, t := range txs {
		if t.Status == domain.TxStatusPending {
			out.PendingVolume[t.Currency] = out.PendingVolume[t.Currency].Add(t.Amount)
		}
	}
	out.PendingKyc = out.KycRequests[string(domain.KycStatusPending)]
	out.PendingTransactions = out.Transactions[string(domain.TxStatusPending)]
	out.OpenTickets = out.Tickets[string(domain.TicketStatusOpen)]
	return out, nil
}

func countBy[T any](records []T, key func(T) string) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		out[key(r)]++
	}
	return out
}
