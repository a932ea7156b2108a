package handler

import (
	"net/http"

	"github.com/ayo6706/brokerage-admin/internal/api/middleware"
	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/ayo6706/brokerage-admin/internal/service"
	"github.com/go-chi/chi/v5"
)

type TicketHandler struct {
	svc *service.TicketService
}

func NewTicketHandler(svc *service.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	listRecords(w, r, query.TicketSchema, h.svc.List)
}

func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	getRecord(w, r, h.svc.Get)
}

// Reply posts a message as the calling admin.
func (h *TicketHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req service.ReplyInput
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	req.SenderID = actor(r)
	req.SenderName = middleware.AdminNameFromContext(r.Context())
	req.Role = domain.SenderAdmin
	ticket, err := h.svc.Reply(r.Context(), chi.URLParam(r, "id"), req)
	respondRecord(w, r, ticket, err)
}

func (h *TicketHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req service.TicketStatusInput
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	req.Actor = actor(r)
	ticket, err := h.svc.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req)
	respondRecord(w, r, ticket, err)
}

// Assign takes {"adminId": "..."}; an empty body assigns the caller.
func (h *TicketHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req service.AssignInput
	if err := decodeBody(w, r, &req, true); err != nil {
		respondServiceError(w, r, err)
		return
	}
	req.Actor = actor(r)
	if req.AdminID == "" {
		req.AdminID = req.Actor
	}
	ticket, err := h.svc.Assign(r.Context(), chi.URLParam(r, "id"), req)
	respondRecord(w, r, ticket, err)
}
