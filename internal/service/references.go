package service

import (
	"context"

	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/repository"
)

// DanglingReference is a record whose embedded user id has no user record.
type DanglingReference struct {
	Entity   string `json:"entity"`
	RecordID string `json:"recordId"`
	UserID   string `json:"userId"`
}

type ReferenceReport struct {
	Transactions []DanglingReference `json:"transactions"`
	KycRequests  []DanglingReference `json:"kycRequests"`
	Tickets      []DanglingReference `json:"tickets"`
	Total        int                 `json:"total"`
}

// ReferenceService checks embedded user references against the user
// collection.
type ReferenceService struct {
	*base
}

func (s *ReferenceService) DanglingReferences(ctx context.Context) (ReferenceReport, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return ReferenceReport{}, err
	}
	return s.Scan(ctx)
}

// Scan builds the report without simulated latency.
func (s *ReferenceService) Scan(ctx context.Context) (ReferenceReport, error) {
	users, err := s.store.Users.All(ctx)
	if err != nil {
		return ReferenceReport{}, err
	}
	known := make(map[string]struct{}, len(users))
	for _, u := range users {
		known[u.ID] = struct{}{}
	}

	txs, err := s.store.Transactions.All(ctx)
	if err != nil {
		return ReferenceReport{}, err
	}
	kyc, err := s.store.Kyc.All(ctx)
	if err != nil {
		return ReferenceReport{}, err
	}
	tickets, err := s.store.Tickets.All(ctx)
	if err != nil {
		return ReferenceReport{}, err
	}

	report := ReferenceReport{
		Transactions: dangling(repository.EntityTransaction, txs, known, func(t models.Transaction) (string, string) { return t.ID, t.User.ID }),
		KycRequests:  dangling(repository.EntityKyc, kyc, known, func(k models.KycRequest) (string, string) { return k.ID, k.User.ID }),
		Tickets:      dangling(repository.EntityTicket, tickets, known, func(t models.SupportTicket) (string, string) { return t.ID, t.User.ID }),
	}
	report.Total = len(report.Transactions) + len(report.KycRequests) + len(report.Tickets)
	return report, nil
}

func dangling[T any](entity string, records []T, known map[string]struct{}, ref func(T) (string, string)) []DanglingReference {
	out := make([]DanglingReference, 0)
	for _, r := range records {
		id, userID := ref(r)
		if _, ok := known[userID]; !ok {
			out = append(out, DanglingReference{Entity: entity, RecordID: id, UserID: userID})
		}
	}
	return out
}
