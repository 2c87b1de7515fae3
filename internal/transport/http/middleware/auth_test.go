package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrms/internal/domain/auth"
)

func okHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateSetsSession(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{EmployeeID: "20230104", Name: "Kim Chulsu", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	handler := Authenticate(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		if !ok {
			t.Fatal("expected session in context")
		}
		if session.EmployeeID != "20230104" || session.Role != auth.RoleAdmin {
			t.Fatalf("unexpected session: %+v", session)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	called := false
	handler := Authenticate("secret")(okHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Fatal("handler should not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{EmployeeID: "e1", Role: auth.RoleUser}, -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	called := false
	handler := Authenticate(secret)(okHandler(t, &called))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Fatal("handler should not run with an expired token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	secret := "test-secret"
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{name: "admin passes", role: auth.RoleAdmin, wantStatus: http.StatusOK},
		{name: "user forbidden", role: auth.RoleUser, wantStatus: http.StatusForbidden},
		{name: "restricted forbidden", role: auth.RoleChangePassword, wantStatus: http.StatusForbidden},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			token, err := auth.GenerateToken(secret, auth.Claims{EmployeeID: "e1", Role: tc.role}, time.Hour)
			if err != nil {
				t.Fatalf("token error: %v", err)
			}

			called := false
			handler := Authenticate(secret)(RequireAdmin(okHandler(t, &called)))
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if (tc.wantStatus == http.StatusOK) != called {
				t.Fatalf("handler called = %v, want %v", called, tc.wantStatus == http.StatusOK)
			}
		})
	}
}

func TestRequireFullRejectsRestrictedSession(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{EmployeeID: "e1", Role: auth.RoleChangePassword}, auth.RestrictedTTL)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	called := false
	handler := Authenticate(secret)(RequireFull(okHandler(t, &called)))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Fatal("restricted session must not reach the handler")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
