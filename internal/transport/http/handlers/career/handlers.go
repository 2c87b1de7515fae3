package careerhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/career"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *career.Store
}

func NewHandler(store *career.Store) *Handler {
	return &Handler{Store: store}
}

type certificationPayload struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Issuer     string `json:"issuer"`
	IssueDate  string `json:"issue_date"`
	ExpiryDate string `json:"expiry_date"`
	CertNumber string `json:"cert_number"`
}

type trainingPayload struct {
	EmployeeID  string `json:"employee_id"`
	CourseName  string `json:"course_name"`
	Institution string `json:"institution"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type awardPayload struct {
	EmployeeID  string `json:"employee_id"`
	AwardName   string `json:"award_name"`
	Issuer      string `json:"issuer"`
	AwardDate   string `json:"award_date"`
	Description string `json:"description"`
}

type projectPayload struct {
	EmployeeID  string `json:"employee_id"`
	ProjectName string `json:"project_name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Role        string `json:"role"`
	Description string `json:"description"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees/{employeeID}/career", h.handleSummary)

	r.Route("/certifications", func(r chi.Router) {
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateCertification)
		r.With(middleware.RequireAdmin).Put("/{recordID}", h.handleUpdateCertification)
		r.With(middleware.RequireAdmin).Delete("/{recordID}", h.handleDeleteCertification)
	})
	r.Route("/training", func(r chi.Router) {
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateTraining)
		r.With(middleware.RequireAdmin).Put("/{recordID}", h.handleUpdateTraining)
		r.With(middleware.RequireAdmin).Delete("/{recordID}", h.handleDeleteTraining)
	})
	r.Route("/awards", func(r chi.Router) {
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateAward)
		r.With(middleware.RequireAdmin).Put("/{recordID}", h.handleUpdateAward)
		r.With(middleware.RequireAdmin).Delete("/{recordID}", h.handleDeleteAward)
	})
	r.Route("/projects", func(r chi.Router) {
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateProject)
		r.With(middleware.RequireAdmin).Put("/{recordID}", h.handleUpdateProject)
		r.With(middleware.RequireAdmin).Delete("/{recordID}", h.handleDeleteProject)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "employee id is required", reqID)
		return
	}
	summary, err := h.Store.Summary(r.Context(), employeeID)
	if err != nil {
		slog.Error("career summary failed", "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load career summary", reqID)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleCreateCertification(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload certificationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employee_id", payload.EmployeeID, "employee id is required")
	v.Required("name", payload.Name, "certification name is required")
	issueDate, dateOK := v.Date("issue_date", payload.IssueDate)
	expiryDate := optionalDate(v, "expiry_date", payload.ExpiryDate)
	if v.Reject(w, reqID) || !dateOK {
		return
	}

	id, err := h.Store.CreateCertification(r.Context(), career.Certification{
		EmployeeID: payload.EmployeeID,
		Name:       payload.Name,
		Issuer:     payload.Issuer,
		IssueDate:  issueDate,
		ExpiryDate: expiryDate,
		CertNumber: payload.CertNumber,
	})
	if err != nil {
		failStore(w, err, "failed to create certification", reqID)
		return
	}
	api.Created(w, map[string]int{"id": id}, reqID)
}

func (h *Handler) handleUpdateCertification(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, reqID)
	if !ok {
		return
	}
	var payload certificationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "certification name is required")
	issueDate, dateOK := v.Date("issue_date", payload.IssueDate)
	expiryDate := optionalDate(v, "expiry_date", payload.ExpiryDate)
	if v.Reject(w, reqID) || !dateOK {
		return
	}

	err := h.Store.UpdateCertification(r.Context(), id, payload.Name, payload.Issuer, issueDate, expiryDate, payload.CertNumber)
	if err != nil {
		failStore(w, err, "failed to update certification", reqID)
		return
	}
	api.Success(w, map[string]int{"id": id}, reqID)
}

func (h *Handler) handleDeleteCertification(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, h.Store.DeleteCertification, "failed to delete certification")
}

func (h *Handler) handleCreateTraining(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload trainingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employee_id", payload.EmployeeID, "employee id is required")
	v.Required("course_name", payload.CourseName, "course name is required")
	startDate, dateOK := v.Date("start_date", payload.StartDate)
	endDate := optionalDate(v, "end_date", payload.EndDate)
	if v.Reject(w, reqID) || !dateOK {
		return
	}

	id, err := h.Store.CreateTraining(r.Context(), career.Training{
		EmployeeID:  payload.EmployeeID,
		CourseName:  payload.CourseName,
		Institution: payload.Institution,
		StartDate:   startDate,
		EndDate:     endDate,
		Description: payload.Description,
	})
	if err != nil {
		failStore(w, err, "failed to create training record", reqID)
		return
	}
	api.Created(w, map[string]int{"id": id}, reqID)
}

func (h *Handler) handleUpdateTraining(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, reqID)
	if !ok {
		return
	}
	var payload trainingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("course_name", payload.CourseName, "course name is required")
	startDate, dateOK := v.Date("start_date", payload.StartDate)
	endDate := optionalDate(v, "end_date", payload.EndDate)
	if v.Reject(w, reqID) || !dateOK {
		return
	}

	err := h.Store.UpdateTraining(r.Context(), id, payload.CourseName, payload.Institution, startDate, endDate, payload.Description)
	if err != nil {
		failStore(w, err, "failed to update training record", reqID)
		return
	}
	api.Success(w, map[string]int{"id": id}, reqID)
}

func (h *Handler) handleDeleteTraining(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, h.Store.DeleteTraining, "failed to delete training record")
}

func (h *Handler) handleCreateAward(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload awardPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employee_id", payload.EmployeeID, "employee id is required")
	v.Required("award_name", payload.AwardName, "award name is required")
	awardDate, dateOK := v.Date("award_date", payload.AwardDate)
	if v.Reject(w, reqID) || !dateOK {
		return
	}

	id, err := h.Store.CreateAward(r.Context(), career.Award{
		EmployeeID:  payload.EmployeeID,
		AwardName:   payload.AwardName,
		Issuer:      payload.Issuer,
		AwardDate:   awardDate,
		Description: payload.Description,
	})
	if err != nil {
		failStore(w, err, "failed to create award", reqID)
		return
	}
	api.Created(w, map[string]int{"id": id}, reqID)
}

func (h *Handler) handleUpdateAward(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, reqID)
	if !ok {
		return
	}
	var payload awardPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("award_name", payload.AwardName, "award name is required")
	awardDate, dateOK := v.Date("award_date", payload.AwardDate)
	if v.Reject(w, reqID) || !dateOK {
		return
	}

	err := h.Store.UpdateAward(r.Context(), id, payload.AwardName, payload.Issuer, awardDate, payload.Description)
	if err != nil {
		failStore(w, err, "failed to update award", reqID)
		return
	}
	api.Success(w, map[string]int{"id": id}, reqID)
}

func (h *Handler) handleDeleteAward(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, h.Store.DeleteAward, "failed to delete award")
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload projectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employee_id", payload.EmployeeID, "employee id is required")
	v.Required("project_name", payload.ProjectName, "project name is required")
	startDate, dateOK := v.Date("start_date", payload.StartDate)
	endDate := optionalDate(v, "end_date", payload.EndDate)
	if v.Reject(w, reqID) || !dateOK {
		return
	}

	id, err := h.Store.CreateProject(r.Context(), career.Project{
		EmployeeID:  payload.EmployeeID,
		ProjectName: payload.ProjectName,
		StartDate:   startDate,
		EndDate:     endDate,
		Role:        payload.Role,
		Description: payload.Description,
	})
	if err != nil {
		failStore(w, err, "failed to create project", reqID)
		return
	}
	api.Created(w, map[string]int{"id": id}, reqID)
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, reqID)
	if !ok {
		return
	}
	var payload projectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("project_name", payload.ProjectName, "project name is required")
	startDate, dateOK := v.Date("start_date", payload.StartDate)
	endDate := optionalDate(v, "end_date", payload.EndDate)
	if v.Reject(w, reqID) || !dateOK {
		return
	}

	err := h.Store.UpdateProject(r.Context(), id, payload.ProjectName, startDate, endDate, payload.Role, payload.Description)
	if err != nil {
		failStore(w, err, "failed to update project", reqID)
		return
	}
	api.Success(w, map[string]int{"id": id}, reqID)
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, h.Store.DeleteProject, "failed to delete project")
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int) error, fallback string) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, reqID)
	if !ok {
		return
	}
	if err := del(r.Context(), id); err != nil {
		failStore(w, err, fallback, reqID)
		return
	}
	api.Success(w, map[string]int{"id": id}, reqID)
}

// optionalDate parses a date field only when present. An empty string
// is a valid absence, not a validation issue.
func optionalDate(v *shared.Validator, field, value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, ok := v.Date(field, value)
	if !ok {
		return nil
	}
	return &parsed
}

func pathID(w http.ResponseWriter, r *http.Request, reqID string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "recordID"))
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "record id must be a positive integer", reqID)
		return 0, false
	}
	return id, true
}

// failStore translates career store errors into the response envelope.
func failStore(w http.ResponseWriter, err error, fallback, reqID string) {
	if errors.Is(err, career.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "career record not found", reqID)
		return
	}
	slog.Error(fallback, "err", err)
	api.Fail(w, http.StatusInternalServerError, "internal_error", fallback, reqID)
}
