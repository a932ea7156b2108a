package handler

import (
	"net/http"

	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/ayo6706/brokerage-admin/internal/service"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	listRecords(w, r, query.UserSchema, h.svc.List)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	getRecord(w, r, h.svc.Get)
}

// ChangeStatus handles PUT /users/{id}/status.
func (h *UserHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req service.UserStatusInput
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	req.Actor = actor(r)
	user, err := h.svc.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req)
	respondRecord(w, r, user, err)
}

// Update handles PUT /users/{id}; only the fields present are changed.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UserUpdate
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	req.Actor = actor(r)
	user, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	respondRecord(w, r, user, err)
}
