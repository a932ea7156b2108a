package handler

import (
	"net/http"

	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/ayo6706/brokerage-admin/internal/service"
	"github.com/go-chi/chi/v5"
)

type TransactionHandler struct {
	svc *service.TransactionService
}

func NewTransactionHandler(svc *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	listRecords(w, r, query.TransactionSchema, h.svc.List)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	getRecord(w, r, h.svc.Get)
}

func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	txn, err := h.svc.Approve(r.Context(), chi.URLParam(r, "id"), actor(r))
	respondRecord(w, r, txn, err)
}

// Reject requires {"reason": "..."}.
func (h *TransactionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	txn, err := h.svc.Reject(r.Context(), chi.URLParam(r, "id"), actor(r), req.Reason)
	respondRecord(w, r, txn, err)
}
