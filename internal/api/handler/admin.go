package handler

import (
	"net/http"
	"strconv"

	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/service"
)

const defaultAuditLimit = 50

// AdminHandler serves the dashboard summaries.
type AdminHandler struct {
	stats      *service.StatsService
	references *service.ReferenceService
	audit      *service.AuditService
}

func NewAdminHandler(svcs *service.Services) *AdminHandler {
	return &AdminHandler{stats: svcs.Stats, references: svcs.References, audit: svcs.Audit}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Compute(r.Context())
	respondRecord(w, r, stats, err)
}

func (h *AdminHandler) DanglingReferences(w http.ResponseWriter, r *http.Request) {
	report, err := h.references.DanglingReferences(r.Context())
	respondRecord(w, r, report, err)
}

// Audit lists the most recent audit entries, newest first.
func (h *AdminHandler) Audit(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondServiceError(w, r, models.NewValidationError("limit", "must be an integer"))
			return
		}
		limit = n
	}
	entries, err := h.audit.Recent(r.Context(), limit)
	respondRecord(w, r, entries, err)
}
