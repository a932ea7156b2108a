package client

import (
	"context"
	"net/http"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/query"
)

// Resource reads one admin collection. It satisfies entitystore.Source.
type Resource[T any] struct {
	c    *Client
	path string
}

func newResource[T any](c *Client, name string) *Resource[T] {
	return &Resource[T]{c: c, path: "/api/admin/" + name}
}

func (r *Resource[T]) List(ctx context.Context, p query.Params) (models.Page[T], error) {
	var page models.Page[T]
	err := r.c.do(ctx, http.MethodGet, r.path, p.Values(), nil, &page)
	return page, err
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	if id == "" {
		return rec, models.NewValidationError("id", "is required")
	}
	err := r.c.do(ctx, http.MethodGet, r.recordPath(id), nil, nil, &rec)
	return rec, err
}

func (r *Resource[T]) recordPath(id string, action ...string) string {
	p := r.path + "/" + id
	for _, a := range action {
		p += "/" + a
	}
	return p
}

func (r *Resource[T]) send(ctx context.Context, method, id, action string, body any) (T, error) {
	var rec T
	if id == "" {
		return rec, models.NewValidationError("id", "is required")
	}
	path := r.recordPath(id)
	if action != "" {
		path = r.recordPath(id, action)
	}
	err := r.c.do(ctx, method, path, nil, body, &rec)
	return rec, err
}

type UserClient struct {
	*Resource[models.User]
}

// UserPatch carries the editable user fields; nil fields are left alone.
type UserPatch struct {
	UserType         *domain.UserType `json:"userType,omitempty"`
	Phone            *string          `json:"phone,omitempty"`
	Country          *string          `json:"country,omitempty"`
	TwoFactorEnabled *bool            `json:"twoFactorEnabled,omitempty"`
}

func (u *UserClient) ChangeStatus(ctx context.Context, id string, status domain.UserStatus, reason string) (models.User, error) {
	body := struct {
		Status domain.UserStatus `json:"status"`
		Reason string            `json:"reason,omitempty"`
	}{Status: status, Reason: reason}
	return u.send(ctx, http.MethodPut, id, "status", body)
}

func (u *UserClient) Update(ctx context.Context, id string, patch UserPatch) (models.User, error) {
	return u.send(ctx, http.MethodPut, id, "", patch)
}

type TransactionClient struct {
	*Resource[models.Transaction]
}

func (t *TransactionClient) Approve(ctx context.Context, id string) (models.Transaction, error) {
	return t.send(ctx, http.MethodPost, id, "approve", nil)
}

func (t *TransactionClient) Reject(ctx context.Context, id, reason string) (models.Transaction, error) {
	return t.send(ctx, http.MethodPost, id, "reject", reasonBody{Reason: reason})
}

type KycClient struct {
	*Resource[models.KycRequest]
}

func (k *KycClient) Approve(ctx context.Context, id string) (models.KycRequest, error) {
	return k.send(ctx, http.MethodPost, id, "approve", nil)
}

func (k *KycClient) Reject(ctx context.Context, id, reason string) (models.KycRequest, error) {
	return k.send(ctx, http.MethodPost, id, "reject", reasonBody{Reason: reason})
}

func (k *KycClient) Resubmit(ctx context.Context, id string, docs []models.KycDocument) (models.KycRequest, error) {
	body := struct {
		Documents []models.KycDocument `json:"documents"`
	}{Documents: docs}
	return k.send(ctx, http.MethodPost, id, "resubmit", body)
}

type TicketClient struct {
	*Resource[models.SupportTicket]
}

func (t *TicketClient) Reply(ctx context.Context, id, content string) (models.SupportTicket, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	return t.send(ctx, http.MethodPost, id, "reply", body)
}

func (t *TicketClient) ChangeStatus(ctx context.Context, id string, status domain.TicketStatus, note string) (models.SupportTicket, error) {
	body := struct {
		Status domain.TicketStatus `json:"status"`
		Note   string              `json:"note,omitempty"`
	}{Status: status, Note: note}
	return t.send(ctx, http.MethodPut, id, "status", body)
}

// Assign hands the ticket to adminID; an empty id assigns the caller.
func (t *TicketClient) Assign(ctx context.Context, id, adminID string) (models.SupportTicket, error) {
	body := struct {
		AdminID string `json:"adminId,omitempty"`
	}{AdminID: adminID}
	return t.send(ctx, http.MethodPost, id, "assign", body)
}

type reasonBody struct {
	Reason string `json:"reason"`
}
