package authhandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/middleware"
)

const testSecret = "test-secret"

func TestHandleLoginRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: `{}`},
		{name: "missing password", body: `{"employee_id":"20230104"}`},
		{name: "missing employee id", body: `{"password":"secret"}`},
	}

	handler := NewHandler(nil, testSecret)
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.HandleLogin(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleLoginRejectsMalformedBody(t *testing.T) {
	handler := NewHandler(nil, testSecret)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleChangePasswordRejectsShortPassword(t *testing.T) {
	// The length check runs before any hashing or storage, so no
	// database is needed to observe the rejection.
	handler := NewHandler(nil, testSecret)
	token, err := auth.GenerateToken(testSecret, auth.Claims{EmployeeID: "e1", Role: auth.RoleChangePassword}, time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	wrapped := middleware.Authenticate(testSecret)(http.HandlerFunc(handler.HandleChangePassword))
	req := httptest.NewRequest(http.MethodPost, "/api/change-password", strings.NewReader(`{"newPassword":"abc"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleChangePasswordRequiresSession(t *testing.T) {
	handler := NewHandler(nil, testSecret)
	req := httptest.NewRequest(http.MethodPost, "/api/change-password", strings.NewReader(`{"newPassword":"longenough"}`))
	rec := httptest.NewRecorder()
	handler.HandleChangePassword(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
