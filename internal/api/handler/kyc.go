package handler

import (
	"net/http"

	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/ayo6706/brokerage-admin/internal/service"
	"github.com/go-chi/chi/v5"
)

type KycHandler struct {
	svc *service.KycService
}

func NewKycHandler(svc *service.KycService) *KycHandler {
	return &KycHandler{svc: svc}
}

func (h *KycHandler) List(w http.ResponseWriter, r *http.Request) {
	listRecords(w, r, query.KycSchema, h.svc.List)
}

func (h *KycHandler) Get(w http.ResponseWriter, r *http.Request) {
	getRecord(w, r, h.svc.Get)
}

func (h *KycHandler) Approve(w http.ResponseWriter, r *http.Request) {
	req, err := h.svc.Approve(r.Context(), chi.URLParam(r, "id"), actor(r))
	respondRecord(w, r, req, err)
}

func (h *KycHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var body reasonRequest
	if err := decodeBody(w, r, &body, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	req, err := h.svc.Reject(r.Context(), chi.URLParam(r, "id"), actor(r), body.Reason)
	respondRecord(w, r, req, err)
}

// Resubmit moves a request waiting for documents back to pending.
func (h *KycHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	var body service.ResubmitInput
	if err := decodeBody(w, r, &body, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	body.Actor = actor(r)
	req, err := h.svc.Resubmit(r.Context(), chi.URLParam(r, "id"), body)
	respondRecord(w, r, req, err)
}
