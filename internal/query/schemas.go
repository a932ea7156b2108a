package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/models"
)

func byTime[T any](get func(T) time.Time) func(a, b T) int {
	return func(a, b T) int { return get(a).Compare(get(b)) }
}

func byString[T any](get func(T) string) func(a, b T) int {
	return func(a, b T) int { return strings.Compare(get(a), get(b)) }
}

var UserSchema = Schema[models.User]{
	Entity: "user",
	ID:     func(u models.User) string { return u.ID },
	Fields: map[string]func(models.User) string{
		"id":               func(u models.User) string { return u.ID },
		"fullName":         func(u models.User) string { return u.FullName },
		"email":            func(u models.User) string { return u.Email },
		"phone":            func(u models.User) string { return u.Phone },
		"country":          func(u models.User) string { return u.Country },
		"accountNumber":    func(u models.User) string { return u.AccountNumber },
		"status":           func(u models.User) string { return string(u.Status) },
		"userType":         func(u models.User) string { return string(u.UserType) },
		"kycVerified":      func(u models.User) string { return strconv.FormatBool(u.KycVerified) },
		"emailVerified":    func(u models.User) string { return strconv.FormatBool(u.EmailVerified) },
		"twoFactorEnabled": func(u models.User) string { return strconv.FormatBool(u.TwoFactorEnabled) },
	},
	SearchFields: []string{"fullName", "email", "phone", "accountNumber", "id"},
	DateKey:      "createdAt",
	Date:         func(u models.User) time.Time { return u.CreatedAt },
	Sorts: map[string]func(a, b models.User) int{
		"createdAt": byTime(func(u models.User) time.Time { return u.CreatedAt }),
		"updatedAt": byTime(func(u models.User) time.Time { return u.UpdatedAt }),
		"lastLogin": byTime(func(u models.User) time.Time { return u.LastLogin }),
		"fullName":  byString(func(u models.User) string { return u.FullName }),
		"email":     byString(func(u models.User) string { return u.Email }),
		"status":    byString(func(u models.User) string { return string(u.Status) }),
		"balance":   func(a, b models.User) int { return a.Balance.Cmp(b.Balance) },
	},
	DefaultSort: "createdAt",
}

var TransactionSchema = Schema[models.Transaction]{
	Entity: "transaction",
	ID:     func(t models.Transaction) string { return t.ID },
	Fields: map[string]func(models.Transaction) string{
		"id":            func(t models.Transaction) string { return t.ID },
		"type":          func(t models.Transaction) string { return string(t.Type) },
		"status":        func(t models.Transaction) string { return string(t.Status) },
		"currency":      func(t models.Transaction) string { return t.Currency },
		"paymentMethod": func(t models.Transaction) string { return string(t.PaymentMethod) },
		"description":   func(t models.Transaction) string { return t.Description },
		"userId":        func(t models.Transaction) string { return t.User.ID },
		"userName":      func(t models.Transaction) string { return t.User.FullName },
		"userEmail":     func(t models.Transaction) string { return t.User.Email },
	},
	SearchFields: []string{"id", "description", "userName", "userEmail"},
	DateKey:      "date",
	Date:         func(t models.Transaction) time.Time { return t.Date },
	Sorts: map[string]func(a, b models.Transaction) int{
		"date":   byTime(func(t models.Transaction) time.Time { return t.Date }),
		"amount": func(a, b models.Transaction) int { return a.Amount.Cmp(b.Amount) },
		"fee":    func(a, b models.Transaction) int { return a.Fee.Cmp(b.Fee) },
		"status": byString(func(t models.Transaction) string { return string(t.Status) }),
		"type":   byString(func(t models.Transaction) string { return string(t.Type) }),
	},
	DefaultSort: "date",
}

var KycSchema = Schema[models.KycRequest]{
	Entity: "kyc request",
	ID:     func(k models.KycRequest) string { return k.ID },
	Fields: map[string]func(models.KycRequest) string{
		"id":        func(k models.KycRequest) string { return k.ID },
		"status":    func(k models.KycRequest) string { return string(k.Status) },
		"country":   func(k models.KycRequest) string { return k.Information.Country },
		"userId":    func(k models.KycRequest) string { return k.User.ID },
		"userName":  func(k models.KycRequest) string { return k.User.FullName },
		"userEmail": func(k models.KycRequest) string { return k.User.Email },
	},
	SearchFields: []string{"id", "userName", "userEmail"},
	DateKey:      "submittedAt",
	Date:         func(k models.KycRequest) time.Time { return k.SubmittedAt },
	Sorts: map[string]func(a, b models.KycRequest) int{
		"submittedAt": byTime(func(k models.KycRequest) time.Time { return k.SubmittedAt }),
		"updatedAt":   byTime(func(k models.KycRequest) time.Time { return k.UpdatedAt }),
		"status":      byString(func(k models.KycRequest) string { return string(k.Status) }),
	},
	DefaultSort: "submittedAt",
}

var priorityRank = map[domain.TicketPriority]int{
	domain.PriorityLow:    0,
	domain.PriorityMedium: 1,
	domain.PriorityHigh:   2,
	domain.PriorityUrgent: 3,
}

var TicketSchema = Schema[models.SupportTicket]{
	Entity: "ticket",
	ID:     func(s models.SupportTicket) string { return s.ID },
	Fields: map[string]func(models.SupportTicket) string{
		"id":        func(s models.SupportTicket) string { return s.ID },
		"subject":   func(s models.SupportTicket) string { return s.Subject },
		"content":   func(s models.SupportTicket) string { return s.Content },
		"category":  func(s models.SupportTicket) string { return s.Category },
		"status":    func(s models.SupportTicket) string { return string(s.Status) },
		"priority":  func(s models.SupportTicket) string { return string(s.Priority) },
		"userId":    func(s models.SupportTicket) string { return s.User.ID },
		"userName":  func(s models.SupportTicket) string { return s.User.FullName },
		"userEmail": func(s models.SupportTicket) string { return s.User.Email },
		"assignedTo": func(s models.SupportTicket) string {
			if s.AssignedTo == nil {
				return ""
			}
			return *s.AssignedTo
		},
	},
	SearchFields: []string{"id", "subject", "content", "userName", "userEmail"},
	DateKey:      "createdAt",
	Date:         func(s models.SupportTicket) time.Time { return s.CreatedAt },
	Sorts: map[string]func(a, b models.SupportTicket) int{
		"createdAt":    byTime(func(s models.SupportTicket) time.Time { return s.CreatedAt }),
		"updatedAt":    byTime(func(s models.SupportTicket) time.Time { return s.UpdatedAt }),
		"lastActivity": byTime(func(s models.SupportTicket) time.Time { return s.LastActivity }),
		"status":       byString(func(s models.SupportTicket) string { return string(s.Status) }),
		"priority": func(a, b models.SupportTicket) int {
			return priorityRank[a.Priority] - priorityRank[b.Priority]
		},
	},
	DefaultSort: "createdAt",
}
