package evaluationhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/evaluation"
	"hrms/internal/transport/http/middleware"
)

func TestHandleUpsertRejectsSelfEvaluation(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{EmployeeID: "EV01", Name: "Evaluator", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	handler := NewHandler(evaluation.NewStore(nil))
	wrapped := middleware.Authenticate(secret)(http.HandlerFunc(handler.handleUpsert))

	body := `{"employee_id":"EV01","evaluation_year":2024,"rating":"A","feedback":"great"}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluations", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if envelope.Error == nil || envelope.Error.Code != "self_evaluation" {
		t.Fatalf("expected self_evaluation code, got %+v", envelope.Error)
	}
}

func TestHandleUpsertRejectsBadRating(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{EmployeeID: "EV01", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	handler := NewHandler(evaluation.NewStore(nil))
	wrapped := middleware.Authenticate(secret)(http.HandlerFunc(handler.handleUpsert))

	body := `{"employee_id":"20230104","evaluation_year":2024,"rating":"D"}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluations", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
