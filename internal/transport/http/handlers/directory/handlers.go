package directoryhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/directory"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *directory.Store
}

func NewHandler(store *directory.Store) *Handler {
	return &Handler{Store: store}
}

type departmentPayload struct {
	Name     string `json:"name"`
	ParentID *int   `json:"parent_id"`
}

type employeePayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Status        string `json:"status"`
	DeptID        *int   `json:"dept_id"`
	JobPositionID *int   `json:"job_position_id"`
}

type employeeUpdatePayload struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Status        *string `json:"status"`
	DeptID        *int    `json:"dept_id"`
	JobPositionID *int    `json:"job_position_id"`
}

type positionPayload struct {
	Name        string `json:"name"`
	Level       *int   `json:"level"`
	Description string `json:"description"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.handleListDepartments)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateDepartment)
		r.With(middleware.RequireAdmin).Put("/{departmentID}", h.handleUpdateDepartment)
		r.With(middleware.RequireAdmin).Delete("/{departmentID}", h.handleDeleteDepartment)
	})
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateEmployee)
		r.With(middleware.RequireAdmin).Put("/{employeeID}", h.handleUpdateEmployee)
		r.With(middleware.RequireAdmin).Delete("/{employeeID}", h.handleDeleteEmployee)
	})
	r.Route("/positions", func(r chi.Router) {
		r.Get("/", h.handleListPositions)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreatePosition)
		r.With(middleware.RequireAdmin).Put("/{positionID}", h.handleUpdatePosition)
		r.With(middleware.RequireAdmin).Delete("/{positionID}", h.handleDeletePosition)
	})
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		failStore(w, err, "failed to list departments", reqID)
		return
	}
	api.Success(w, departments, reqID)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "department name is required")
	if v.Reject(w, reqID) {
		return
	}

	dept, err := h.Store.CreateDepartment(r.Context(), payload.Name, payload.ParentID)
	if err != nil {
		failStore(w, err, "failed to create department", reqID)
		return
	}
	api.Created(w, dept, reqID)
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, "departmentID", reqID)
	if !ok {
		return
	}
	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "department name is required")
	if v.Reject(w, reqID) {
		return
	}

	dept, err := h.Store.UpdateDepartment(r.Context(), id, payload.Name, payload.ParentID)
	if err != nil {
		failStore(w, err, "failed to update department", reqID)
		return
	}
	api.Success(w, dept, reqID)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, "departmentID", reqID)
	if !ok {
		return
	}
	if err := h.Store.DeleteDepartment(r.Context(), id); err != nil {
		failStore(w, err, "failed to delete department", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	filter := directory.EmployeeFilter{
		Search: query.Get("search"),
		Status: query.Get("status"),
	}
	// "all" is the client's no-filter sentinel for status.
	if filter.Status == "all" {
		filter.Status = ""
	}
	if raw := query.Get("dept_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filter.DeptID = id
		}
	}
	if raw := query.Get("job_position_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filter.JobPositionID = id
		}
	}

	employees, err := h.Store.ListEmployees(r.Context(), filter)
	if err != nil {
		failStore(w, err, "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("id", payload.ID, "employee id is required")
	v.Required("name", payload.Name, "name is required")
	v.Required("email", payload.Email, "email is required")
	if payload.DeptID == nil {
		v.Add("dept_id", "department is required")
	}
	if payload.JobPositionID == nil {
		v.Add("job_position_id", "job position is required")
	}
	v.Enum("status", payload.Status,
		[]string{directory.StatusActive, directory.StatusLeave, directory.StatusTerminated},
		"status must be active, leave or terminated")
	if v.Reject(w, reqID) {
		return
	}

	emp, err := h.Store.CreateEmployee(r.Context(), directory.CreateEmployeeInput{
		ID:            payload.ID,
		Name:          payload.Name,
		Email:         payload.Email,
		Status:        payload.Status,
		DeptID:        *payload.DeptID,
		JobPositionID: *payload.JobPositionID,
	})
	if err != nil {
		failStore(w, err, "failed to create employee", reqID)
		return
	}
	api.Created(w, emp, reqID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "employeeID")

	var payload employeeUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.Status != nil {
		v.Enum("status", *payload.Status,
			[]string{directory.StatusActive, directory.StatusLeave, directory.StatusTerminated},
			"status must be active, leave or terminated")
	}
	if payload.Name != nil && *payload.Name == "" {
		v.Add("name", "name cannot be blank")
	}
	if payload.Email != nil && *payload.Email == "" {
		v.Add("email", "email cannot be blank")
	}
	if v.Reject(w, reqID) {
		return
	}

	emp, err := h.Store.UpdateEmployee(r.Context(), id, directory.UpdateEmployeeInput{
		Name:          payload.Name,
		Email:         payload.Email,
		Status:        payload.Status,
		DeptID:        payload.DeptID,
		JobPositionID: payload.JobPositionID,
	})
	if err != nil {
		failStore(w, err, "failed to update employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "employeeID")
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		failStore(w, err, "failed to delete employee", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	positions, err := h.Store.ListPositions(r.Context())
	if err != nil {
		failStore(w, err, "failed to list positions", reqID)
		return
	}
	api.Success(w, positions, reqID)
}

func (h *Handler) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload positionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "position name is required")
	if payload.Level == nil {
		v.Add("level", "level is required")
	}
	if v.Reject(w, reqID) {
		return
	}

	pos, err := h.Store.CreatePosition(r.Context(), payload.Name, *payload.Level, payload.Description)
	if err != nil {
		failStore(w, err, "failed to create position", reqID)
		return
	}
	api.Created(w, pos, reqID)
}

func (h *Handler) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, "positionID", reqID)
	if !ok {
		return
	}
	var payload positionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "position name is required")
	if payload.Level == nil {
		v.Add("level", "level is required")
	}
	if v.Reject(w, reqID) {
		return
	}

	pos, err := h.Store.UpdatePosition(r.Context(), id, payload.Name, *payload.Level, payload.Description)
	if err != nil {
		failStore(w, err, "failed to update position", reqID)
		return
	}
	api.Success(w, pos, reqID)
}

func (h *Handler) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, "positionID", reqID)
	if !ok {
		return
	}
	if err := h.Store.DeletePosition(r.Context(), id); err != nil {
		failStore(w, err, "failed to delete position", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func pathID(w http.ResponseWriter, r *http.Request, param, reqID string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "id must be numeric", reqID)
		return 0, false
	}
	return id, true
}

// failStore translates directory store errors into the response
// taxonomy; anything unrecognized is an opaque 500.
func failStore(w http.ResponseWriter, err error, fallback, reqID string) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", reqID)
	case errors.Is(err, directory.ErrDuplicate):
		api.Fail(w, http.StatusConflict, "conflict", "employee id or email already in use", reqID)
	case errors.Is(err, directory.ErrDuplicatePosition):
		api.Fail(w, http.StatusConflict, "conflict", "position name or level already in use", reqID)
	case errors.Is(err, directory.ErrDepartmentCycle):
		api.Fail(w, http.StatusConflict, "department_cycle", "department parent would create a cycle", reqID)
	case errors.Is(err, directory.ErrDepartmentHasChildren):
		api.Fail(w, http.StatusConflict, "conflict", "department has child departments; move or delete them first", reqID)
	case errors.Is(err, directory.ErrDepartmentHasEmployees):
		api.Fail(w, http.StatusConflict, "conflict", "department has assigned employees; move them first", reqID)
	case errors.Is(err, directory.ErrPositionInUse):
		api.Fail(w, http.StatusConflict, "conflict", "position is referenced by employees", reqID)
	case directory.IsForeignKeyViolation(err):
		api.Fail(w, http.StatusBadRequest, "invalid_reference", "referenced department or position does not exist", reqID)
	default:
		slog.Error("directory store error", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", fallback, reqID)
	}
}
