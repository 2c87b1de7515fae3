package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	DB     *pgxpool.Pool
	Secret string
}

func NewHandler(db *pgxpool.Pool, secret string) *Handler {
	return &Handler{DB: db, Secret: secret}
}

type loginRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// RegisterProtected mounts the routes that need a session. Login is
// registered separately, outside the authenticated group.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/change-password", h.HandleChangePassword)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.EmployeeID == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "employee_id and password are required", reqID)
		return
	}

	var id, name, role string
	var passwordHash *string
	err := h.DB.QueryRow(r.Context(), `
    SELECT id, name, role, password_hash
    FROM employees
    WHERE id = $1
  `, payload.EmployeeID).Scan(&id, &name, &role, &passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid employee id or password", reqID)
		return
	}
	if err != nil {
		slog.Error("login lookup failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", reqID)
		return
	}

	// First-ever login: no password on record yet. Hand out a short
	// restricted token that can only reach change-password. The client
	// branches on this code, which is why it differs from a plain
	// credential failure.
	if passwordHash == nil {
		tempToken, err := auth.GenerateToken(h.Secret, auth.Claims{
			EmployeeID: id,
			Name:       name,
			Role:       auth.RoleChangePassword,
		}, auth.RestrictedTTL)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
			return
		}
		api.FailWithDetails(w, http.StatusUnauthorized, "password_change_required", "password change required", map[string]any{
			"tempToken": tempToken,
			"user":      map[string]string{"id": id, "name": name},
		}, reqID)
		return
	}

	if err := auth.CheckPassword(*passwordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid employee id or password", reqID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		EmployeeID: id,
		Name:       name,
		Role:       role,
	}, auth.SessionTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}

	api.Success(w, map[string]any{
		"token": token,
		"user":  map[string]string{"id": id, "name": name, "role": role},
	}, reqID)
}

// HandleChangePassword accepts both full and restricted sessions;
// setting a password is exactly what a restricted session exists for.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	session, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "token_missing", "authentication required", reqID)
		return
	}

	var payload changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if err := auth.ValidateNewPassword(payload.NewPassword); err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
		return
	}

	hashed, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to hash password", reqID)
		return
	}

	tag, err := h.DB.Exec(r.Context(), `
    UPDATE employees SET password_hash = $1, updated_at = now() WHERE id = $2
  `, hashed, session.EmployeeID)
	if err != nil {
		slog.Error("password update failed", "employeeId", session.EmployeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to update password", reqID)
		return
	}
	if tag.RowsAffected() == 0 {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}

	api.Success(w, map[string]string{"status": "password_changed"}, reqID)
}
