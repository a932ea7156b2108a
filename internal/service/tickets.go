package service

import (
	"context"
	"strings"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/ayo6706/brokerage-admin/internal/repository"
	"github.com/oklog/ulid/v2"
)

type TicketService struct {
	*base
}

// ReplyInput is one message appended to a ticket conversation.
type ReplyInput struct {
	Content    string            `json:"content"`
	SenderID   string            `json:"-"`
	SenderName string            `json:"-"`
	Role       domain.SenderRole `json:"-"`
}

type TicketStatusInput struct {
	Status domain.TicketStatus `json:"status"`
	Note   string              `json:"note,omitempty"`
	Actor  string              `json:"-"`
}

type AssignInput struct {
	AdminID string `json:"adminId"`
	Actor   string `json:"-"`
}

// adminReplyPath is the chain of moves an admin reply causes from each
// status that accepts replies.
var adminReplyPath = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusResponded},
	domain.TicketStatusInProgress: {domain.TicketStatusResponded},
}

func (s *TicketService) List(ctx context.Context, p query.Params) (models.Page[models.SupportTicket], error) {
	return list(ctx, s.base, s.store.Tickets, p, query.TicketSchema)
}

func (s *TicketService) Get(ctx context.Context, id string) (models.SupportTicket, error) {
	return get(ctx, s.base, s.store.Tickets, id)
}

// Reply appends a message. Resolved and closed tickets take no replies. An
// admin reply moves the ticket to responded, recording each step.
func (s *TicketService) Reply(ctx context.Context, id string, in ReplyInput) (models.SupportTicket, error) {
	const action = "reply"
	if in.Role == "" {
		in.Role = domain.SenderAdmin
	}
	if err := requireField("id", id); err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	if err := requireField("content", in.Content); err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	if err := requireField("sender", in.SenderID); err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	if !in.Role.Valid() {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, models.NewValidationError("role", "must be admin or user"))
	}
	name := strings.TrimSpace(in.SenderName)
	if name == "" {
		name = in.SenderID
	}

	var from domain.TicketStatus
	now := s.now()
	ticket, err := mutate(ctx, s.base, s.store.Tickets, id, func(t models.SupportTicket) (models.SupportTicket, error) {
		if !t.Status.AcceptsReplies() {
			return t, &models.TransitionError{Entity: repository.EntityTicket, ID: t.ID, From: string(t.Status), To: action}
		}
		from = t.Status
		t.Replies = append(t.Replies, models.Reply{
			ID:        newReplyID(now),
			Content:   strings.TrimSpace(in.Content),
			CreatedAt: now,
			Sender:    models.Sender{ID: in.SenderID, Name: name, Role: in.Role},
		})
		if in.Role == domain.SenderAdmin {
			for _, to := range adminReplyPath[t.Status] {
				t.StatusHistory = append(t.StatusHistory, models.StatusChange{From: t.Status, To: to, UpdatedAt: now, UpdatedBy: in.SenderID})
				t.Status = to
			}
		}
		t.UpdatedAt = now
		t.LastActivity = now
		return t, nil
	})
	if err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	s.succeed(ctx, models.AuditEntry{
		Entity: repository.EntityTicket, EntityID: id, Actor: in.SenderID, Action: action,
		From: string(from), To: string(ticket.Status), At: now,
	})
	return ticket, nil
}

// ChangeStatus moves a ticket along its state machine and records the move.
// A note given when resolving becomes the resolution note; reopening clears it.
func (s *TicketService) ChangeStatus(ctx context.Context, id string, in TicketStatusInput) (models.SupportTicket, error) {
	const action = "change_status"
	if err := requireField("id", id); err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	if err := requireField("actor", in.Actor); err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	if !in.Status.Valid() {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, models.NewValidationError("status", "unknown ticket status "+string(in.Status)))
	}
	note := strings.TrimSpace(in.Note)

	var from domain.TicketStatus
	now := s.now()
	ticket, err := mutate(ctx, s.base, s.store.Tickets, id, func(t models.SupportTicket) (models.SupportTicket, error) {
		if !domain.CanTransitionTicket(t.Status, in.Status) {
			return t, &models.TransitionError{Entity: repository.EntityTicket, ID: t.ID, From: string(t.Status), To: string(in.Status)}
		}
		from = t.Status
		t.StatusHistory = append(t.StatusHistory, models.StatusChange{From: t.Status, To: in.Status, UpdatedAt: now, UpdatedBy: in.Actor, Note: note})
		t.Status = in.Status
		switch in.Status {
		case domain.TicketStatusResolved:
			if note != "" {
				t.ResolutionNote = models.StringPtr(note)
			}
		case domain.TicketStatusOpen:
			t.ResolutionNote = nil
		}
		t.UpdatedAt = now
		t.LastActivity = now
		return t, nil
	})
	if err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	s.succeed(ctx, models.AuditEntry{
		Entity: repository.EntityTicket, EntityID: id, Actor: in.Actor, Action: action,
		From: string(from), To: string(in.Status), Note: note, At: now,
	})
	return ticket, nil
}

// Assign hands a ticket to an admin. Closed tickets cannot be reassigned.
func (s *TicketService) Assign(ctx context.Context, id string, in AssignInput) (models.SupportTicket, error) {
	const action = "assign"
	if err := requireField("id", id); err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	if err := requireField("actor", in.Actor); err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	if err := requireField("adminId", in.AdminID); err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	adminID := strings.TrimSpace(in.AdminID)

	var previous string
	now := s.now()
	ticket, err := mutate(ctx, s.base, s.store.Tickets, id, func(t models.SupportTicket) (models.SupportTicket, error) {
		if t.Status == domain.TicketStatusClosed {
			return t, &models.TransitionError{Entity: repository.EntityTicket, ID: t.ID, From: string(t.Status), To: action}
		}
		if t.AssignedTo != nil {
			previous = *t.AssignedTo
		}
		t.AssignedTo = models.StringPtr(adminID)
		t.UpdatedAt = now
		return t, nil
	})
	if err != nil {
		return models.SupportTicket{}, s.fail(repository.EntityTicket, action, err)
	}
	s.succeed(ctx, models.AuditEntry{
		Entity: repository.EntityTicket, EntityID: id, Actor: in.Actor, Action: action,
		From: previous, To: adminID, At: now,
	})
	return ticket, nil
}

func newReplyID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String()
}
