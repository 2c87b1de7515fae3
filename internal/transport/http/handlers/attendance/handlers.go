package attendancehandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/attendance"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *attendance.Store
}

func NewHandler(store *attendance.Store) *Handler {
	return &Handler{Store: store}
}

type upsertPayload struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/", h.handleListMonth)
		r.With(middleware.RequireAdmin).Post("/", h.handleUpsert)
	})
}

func (h *Handler) handleListMonth(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, month, err := shared.YearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
		return
	}

	records, err := h.Store.ListMonth(r.Context(), year, month)
	if err != nil {
		slog.Error("list attendance failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list attendance", reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload upsertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employee_id", payload.EmployeeID, "employee id is required")
	v.Required("status", payload.Status, "status is required")
	if payload.Status != "" && !attendance.ValidStatus(payload.Status) {
		v.Add("status", "unknown attendance status")
	}
	date, dateOK := v.Date("date", payload.Date)
	if v.Reject(w, reqID) || !dateOK {
		return
	}

	if err := h.Store.Upsert(r.Context(), payload.EmployeeID, date, payload.Status); err != nil {
		slog.Error("attendance upsert failed", "employeeId", payload.EmployeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to save attendance", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "saved"}, reqID)
}
