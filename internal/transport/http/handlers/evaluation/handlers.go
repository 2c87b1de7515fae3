package evaluationhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/evaluation"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *evaluation.Store
}

func NewHandler(store *evaluation.Store) *Handler {
	return &Handler{Store: store}
}

type upsertPayload struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"evaluation_year"`
	Rating     string `json:"rating"`
	Feedback   string `json:"feedback"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluations", func(r chi.Router) {
		r.Get("/", h.handleListYear)
		r.With(middleware.RequireAdmin).Post("/", h.handleUpsert)
	})
}

func (h *Handler) handleListYear(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "year query parameter is required", reqID)
		return
	}

	records, err := h.Store.ListYear(r.Context(), year)
	if err != nil {
		slog.Error("list evaluations failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list evaluations", reqID)
		return
	}
	api.Success(w, records, reqID)
}

// handleUpsert records a yearly evaluation. The evaluator of record is
// always the session subject, never a field of the payload.
func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "token_missing", "authentication required", reqID)
		return
	}

	var payload upsertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employee_id", payload.EmployeeID, "employee id is required")
	if payload.Year <= 0 {
		v.Add("evaluation_year", "evaluation year is required")
	}
	if !evaluation.ValidRating(payload.Rating) {
		v.Add("rating", "rating must be one of S, A, B, C")
	}
	if v.Reject(w, reqID) {
		return
	}

	err := h.Store.Upsert(r.Context(), payload.EmployeeID, session.EmployeeID, payload.Year, payload.Rating, payload.Feedback)
	if errors.Is(err, evaluation.ErrSelfEvaluation) {
		api.Fail(w, http.StatusBadRequest, "self_evaluation", "an evaluator cannot evaluate themselves", reqID)
		return
	}
	if err != nil {
		slog.Error("evaluation upsert failed", "employeeId", payload.EmployeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to save evaluation", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "saved"}, reqID)
}
