package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ayo6706/brokerage-admin/internal/api/middleware"
	"github.com/ayo6706/brokerage-admin/internal/api/problem"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// envelope wraps every successful admin payload.
type envelope struct {
	Data any `json:"data"`
}

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondData writes data inside the {"data": ...} envelope.
func RespondData(w http.ResponseWriter, status int, data interface{}) {
	RespondJSON(w, status, envelope{Data: data})
}

// RespondError writes an error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

// respondServiceError maps the error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch models.Classify(err) {
	case models.KindValidation:
		d := problem.Details{
			Type:   problem.Type("validation/invalid-input"),
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		}
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			d.Field = ve.Field
			d.Detail = ve.Message
		}
		problem.WriteDetails(w, r, d)
	case models.KindNotFound:
		RespondError(w, r, http.StatusNotFound, "resource/not-found", err.Error())
	case models.KindInvalidTransition:
		RespondError(w, r, http.StatusConflict, "state/invalid-transition", err.Error())
	case models.KindAuthRequired:
		RespondError(w, r, http.StatusUnauthorized, "auth/authentication-required", "Authentication required")
	case models.KindTransient:
		w.Header().Set("Retry-After", "1")
		RespondError(w, r, http.StatusServiceUnavailable, "backend/unavailable", "The backend is temporarily unavailable, retry the request")
	case models.KindCanceled:
		// The client went away; nobody reads this.
		RespondError(w, r, http.StatusServiceUnavailable, "request/canceled", "Request canceled")
	default:
		zap.L().Error("admin request failed",
			zap.String("path", r.URL.Path),
			zap.String("trace_id", middleware.TraceIDFromContext(r.Context())),
			zap.Error(err))
		RespondError(w, r, http.StatusInternalServerError, "internal", "Internal server error")
	}
}

// decodeBody reads a JSON request body into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return models.NewValidationError("body", "invalid request body")
	}
	if dec.More() {
		return models.NewValidationError("body", "request body must hold a single JSON object")
	}
	return nil
}

func actor(r *http.Request) string {
	return middleware.AdminIDFromContext(r.Context())
}

type lister[T any] func(ctx context.Context, p query.Params) (models.Page[T], error)

type getter[T any] func(ctx context.Context, id string) (T, error)

func listRecords[T any](w http.ResponseWriter, r *http.Request, schema query.Schema[T], list lister[T]) {
	params, err := query.ParseValues(r.URL.Query(), schema)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	page, err := list(r.Context(), params)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondData(w, http.StatusOK, page)
}

func getRecord[T any](w http.ResponseWriter, r *http.Request, get getter[T]) {
	rec, err := get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondData(w, http.StatusOK, rec)
}

func respondRecord[T any](w http.ResponseWriter, r *http.Request, rec T, err error) {
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondData(w, http.StatusOK, rec)
}

// reasonRequest is the body of reject actions.
type reasonRequest struct {
	Reason string `json:"reason"`
}
