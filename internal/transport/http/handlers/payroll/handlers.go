package payrollhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/payroll"
	"hrms/internal/platform/metrics"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store   *payroll.Store
	Metrics *metrics.Collector
}

func NewHandler(store *payroll.Store, collector *metrics.Collector) *Handler {
	return &Handler{Store: store, Metrics: collector}
}

type salaryPayload struct {
	BaseSalary    *float64 `json:"base_salary"`
	BankName      string   `json:"bank_name"`
	AccountNumber string   `json:"account_number"`
}

type runPayload struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/salaries", h.handleListSalaries)
	r.With(middleware.RequireAdmin).Put("/salaries/{employeeID}", h.handleUpsertSalary)

	r.Get("/settings/payroll", h.handleGetSettings)
	r.With(middleware.RequireAdmin).Put("/settings/payroll", h.handleUpdateSettings)

	r.Route("/payroll", func(r chi.Router) {
		r.Get("/history", h.handleHistory)
		r.Get("/history/{employeeID}/payslip", h.handlePayslip)
		r.With(middleware.RequireAdmin).Post("/run", h.handleRun)
	})
}

func (h *Handler) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	salaries, err := h.Store.ListSalaries(r.Context())
	if err != nil {
		slog.Error("list salaries failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list salaries", reqID)
		return
	}
	api.Success(w, salaries, reqID)
}

func (h *Handler) handleUpsertSalary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload salaryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.BaseSalary == nil || *payload.BaseSalary <= 0 {
		v.Add("base_salary", "base salary must be a positive number")
	}
	v.Required("bank_name", payload.BankName, "bank name is required")
	v.Required("account_number", payload.AccountNumber, "account number is required")
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Store.UpsertSalary(r.Context(), employeeID, *payload.BaseSalary, payload.BankName, payload.AccountNumber); err != nil {
		slog.Error("upsert salary failed", "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to save salary", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "saved"}, reqID)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		slog.Error("get payroll settings failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load settings", reqID)
		return
	}
	api.Success(w, settings, reqID)
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var settings map[string]string
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	for key := range settings {
		if !strings.HasPrefix(key, payroll.SettingPrefix) {
			api.Fail(w, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("setting key %q is outside the payroll namespace", key), reqID)
			return
		}
	}

	if err := h.Store.UpdateSettings(r.Context(), settings); err != nil {
		slog.Error("update payroll settings failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to save settings", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "saved"}, reqID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, month, err := shared.YearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
		return
	}

	records, err := h.Store.ListHistory(r.Context(), year, month)
	if err != nil {
		slog.Error("payroll history failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load payroll history", reqID)
		return
	}
	api.Success(w, records, reqID)
}

// handleRun regenerates the ledger for one month. The caller sees
// either a full success with the record count or a full failure; the
// engine never leaves a partial ledger behind.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload runPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.Year <= 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "year is required", reqID)
		return
	}

	result, err := h.Store.Run(r.Context(), payload.Year, payload.Month)
	if errors.Is(err, payroll.ErrInvalidMonth) {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
		return
	}
	if err != nil {
		slog.Error("payroll run failed", "year", payload.Year, "month", payload.Month, "err", err)
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", err.Error(), reqID)
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordPayrollRun()
	}
	if result.Records == 0 {
		api.Success(w, result, reqID)
		return
	}
	api.Created(w, result, reqID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	year, month, err := shared.YearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
		return
	}

	record, err := h.Store.GetRecord(r.Context(), employeeID, year, month)
	if errors.Is(err, payroll.ErrRecordNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "no payroll record for that month", reqID)
		return
	}
	if err != nil {
		slog.Error("payslip lookup failed", "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load payroll record", reqID)
		return
	}

	var buf bytes.Buffer
	if err := payroll.WritePayslipPDF(&buf, record); err != nil {
		slog.Error("payslip render failed", "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to render payslip", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="payslip-%s-%04d-%02d.pdf"`, employeeID, year, month))
	_, _ = w.Write(buf.Bytes())
}
