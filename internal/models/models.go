package models

import (
	"time"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/shopspring/decimal"
)

// UserRef is the denormalized user reference embedded in other records.
type UserRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type User struct {
	ID               string            `json:"id"`
	FullName         string            `json:"fullName"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	Country          string            `json:"country"`
	AccountNumber    string            `json:"accountNumber"`
	Status           domain.UserStatus `json:"status"`
	UserType         domain.UserType   `json:"userType"`
	Balance          decimal.Decimal   `json:"balance"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	KycVerified      bool              `json:"kycVerified"`
	LastLogin        time.Time         `json:"lastLogin"`
	EmailVerified    bool              `json:"emailVerified"`
	TwoFactorEnabled bool              `json:"twoFactorEnabled"`
	ReferredBy       *string           `json:"referredBy,omitempty"`
}

func (u User) RecordID() string { return u.ID }

// Ref returns the reference other records embed for this user.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

func (u User) Clone() User {
	out := u
	out.ReferredBy = cloneString(u.ReferredBy)
	return out
}

type Transaction struct {
	ID              string                   `json:"id"`
	Type            domain.TransactionType   `json:"type"`
	Status          domain.TransactionStatus `json:"status"`
	Amount          decimal.Decimal          `json:"amount"`
	Currency        string                   `json:"currency"`
	Fee             decimal.Decimal          `json:"fee"`
	Date            time.Time                `json:"date"`
	Description     string                   `json:"description"`
	PaymentMethod   domain.PaymentMethod     `json:"paymentMethod"`
	User            UserRef                  `json:"user"`
	Details         PaymentDetails           `json:"details"`
	UpdatedAt       *time.Time               `json:"updatedAt"`
	CompletedAt     *time.Time               `json:"completedAt,omitempty"`
	RejectionReason *string                  `json:"rejectionReason,omitempty"`
}

func (t Transaction) RecordID() string { return t.ID }

func (t Transaction) Clone() Transaction {
	out := t
	out.Details = t.Details.Clone()
	out.UpdatedAt = cloneTime(t.UpdatedAt)
	out.CompletedAt = cloneTime(t.CompletedAt)
	out.RejectionReason = cloneString(t.RejectionReason)
	return out
}

type KycDocument struct {
	Type   domain.DocumentType   `json:"type"`
	Status domain.DocumentStatus `json:"status"`
	URL    string                `json:"url"`
}

type KycInformation struct {
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
}

type KycRequest struct {
	ID          string           `json:"id"`
	User        UserRef          `json:"user"`
	Status      domain.KycStatus `json:"status"`
	SubmittedAt time.Time        `json:"submittedAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Documents   []KycDocument    `json:"documents"`
	Information KycInformation   `json:"information"`
	Notes       *string          `json:"notes,omitempty"`
	ApprovedBy  *string          `json:"approvedBy,omitempty"`
	RejectedBy  *string          `json:"rejectedBy,omitempty"`
}

func (k KycRequest) RecordID() string { return k.ID }

func (k KycRequest) Clone() KycRequest {
	out := k
	out.Documents = append([]KycDocument(nil), k.Documents...)
	out.Notes = cloneString(k.Notes)
	out.ApprovedBy = cloneString(k.ApprovedBy)
	out.RejectedBy = cloneString(k.RejectedBy)
	return out
}

type Sender struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Role domain.SenderRole `json:"role"`
}

type Reply struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Sender    Sender    `json:"sender"`
}

// StatusChange is one entry of a ticket's append-only status history.
type StatusChange struct {
	From      domain.TicketStatus `json:"from"`
	To        domain.TicketStatus `json:"to"`
	UpdatedAt time.Time           `json:"updatedAt"`
	UpdatedBy string              `json:"updatedBy"`
	Note      string              `json:"note,omitempty"`
}

type SupportTicket struct {
	ID             string                `json:"id"`
	Subject        string                `json:"subject"`
	Category       string                `json:"category"`
	Content        string                `json:"content"`
	User           UserRef               `json:"user"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	LastActivity   time.Time             `json:"lastActivity"`
	Replies        []Reply               `json:"replies"`
	AssignedTo     *string               `json:"assignedTo,omitempty"`
	ResolutionNote *string               `json:"resolutionNote,omitempty"`
	StatusHistory  []StatusChange        `json:"statusHistory,omitempty"`
}

func (s SupportTicket) RecordID() string { return s.ID }

func (s SupportTicket) Clone() SupportTicket {
	out := s
	out.Replies = append([]Reply(nil), s.Replies...)
	if out.Replies == nil {
		out.Replies = []Reply{}
	}
	out.StatusHistory = append([]StatusChange(nil), s.StatusHistory...)
	out.AssignedTo = cloneString(s.AssignedTo)
	out.ResolutionNote = cloneString(s.ResolutionNote)
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// StringPtr returns a pointer to a copy of v.
func StringPtr(v string) *string { return &v }

// TimePtr returns a pointer to a copy of v.
func TimePtr(v time.Time) *time.Time { return &v }
