package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"hrms/internal/app/server"
	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		Addr:              ":0",
		DatabaseURL:       dbURL,
		JWTSecret:         "test-secret",
		FrontendDir:       "frontend/dist",
		Environment:       "test",
		RunMigrations:     true,
		MigrationsDir:     "../../../migrations",
		RunSeed:           true,
		SeedAdminID:       "20220311",
		SeedAdminPassword: "ChangeMe123!",
		MaxBodyBytes:      1048576,
		MetricsEnabled:    false,
	}
}

func TestDepartmentCycleAndDeleteGuards(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	token := login(t, client, ts.URL, cfg.SeedAdminID, cfg.SeedAdminPassword)

	parentID := createDepartment(t, client, ts.URL, token, "Guard Parent", nil)
	childID := createDepartment(t, client, ts.URL, token, "Guard Child", &parentID)

	// Parenting the root under its own descendant must be refused.
	status, env := doJSON(t, client, http.MethodPut, ts.URL+fmt.Sprintf("/api/departments/%d", parentID), token, map[string]any{
		"name":      "Guard Parent",
		"parent_id": childID,
	})
	if status != http.StatusConflict || env.Error == nil || env.Error.Code != "department_cycle" {
		t.Fatalf("expected 409 department_cycle for descendant parent, got status=%d err=%+v", status, env.Error)
	}

	status, env = doJSON(t, client, http.MethodPut, ts.URL+fmt.Sprintf("/api/departments/%d", parentID), token, map[string]any{
		"name":      "Guard Parent",
		"parent_id": parentID,
	})
	if status != http.StatusConflict || env.Error == nil || env.Error.Code != "department_cycle" {
		t.Fatalf("expected 409 department_cycle for self parent, got status=%d err=%+v", status, env.Error)
	}

	status, env = doJSON(t, client, http.MethodDelete, ts.URL+fmt.Sprintf("/api/departments/%d", parentID), token, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 deleting department with a child, got %d err=%+v", status, env.Error)
	}

	employeeID := createEmployee(t, client, ts.URL, token, &childID)
	status, env = doJSON(t, client, http.MethodDelete, ts.URL+fmt.Sprintf("/api/departments/%d", childID), token, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 deleting department with employees, got %d err=%+v", status, env.Error)
	}

	// Both departments must still exist after the refused deletes.
	var count int
	if err := app.DB.QueryRow(context.Background(), "SELECT COUNT(1) FROM departments WHERE id = ANY($1)", []int{parentID, childID}).Scan(&count); err != nil {
		t.Fatalf("failed to count departments: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected both departments to survive, found %d", count)
	}
	_ = employeeID
}

func TestAttendanceUpsertLastWriteWins(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	token := login(t, client, ts.URL, cfg.SeedAdminID, cfg.SeedAdminPassword)
	employeeID := createEmployee(t, client, ts.URL, token, nil)

	for _, status := range []string{"present", "sick"} {
		code, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/attendance", token, map[string]any{
			"employee_id": employeeID,
			"date":        "2044-03-04",
			"status":      status,
		})
		if code >= 400 {
			t.Fatalf("attendance upsert with status %q failed: %d %+v", status, code, env.Error)
		}
	}

	code, env := doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance?year=2044&month=3", token, nil)
	if code != http.StatusOK {
		t.Fatalf("attendance list failed: %d %+v", code, env.Error)
	}
	var records []struct {
		EmployeeID string `json:"employeeId"`
		Status     string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &records); err != nil {
		t.Fatalf("failed to decode attendance list: %v", err)
	}
	matches := 0
	for _, record := range records {
		if record.EmployeeID != employeeID {
			continue
		}
		matches++
		if record.Status != "sick" {
			t.Fatalf("expected the second write to win, got status %q", record.Status)
		}
	}
	if matches != 1 {
		t.Fatalf("expected exactly one attendance row for the day, got %d", matches)
	}
}

func TestPasswordlessLoginIssuesRestrictedToken(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminID, cfg.SeedAdminPassword)
	employeeID := createEmployee(t, client, ts.URL, adminToken, nil)

	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]any{
		"employee_id": employeeID,
		"password":    "whatever",
	})
	if status != http.StatusUnauthorized || env.Error == nil || env.Error.Code != "password_change_required" {
		t.Fatalf("expected 401 password_change_required, got status=%d err=%+v", status, env.Error)
	}

	var details struct {
		TempToken string `json:"tempToken"`
	}
	if err := json.Unmarshal(env.Error.Details, &details); err != nil {
		t.Fatalf("failed to decode login details: %v", err)
	}
	if details.TempToken == "" {
		t.Fatal("expected a restricted temp token")
	}

	claims, err := auth.ParseToken(cfg.JWTSecret, details.TempToken)
	if err != nil {
		t.Fatalf("failed to parse temp token: %v", err)
	}
	if claims.Role != auth.RoleChangePassword {
		t.Fatalf("expected restricted role, got %q", claims.Role)
	}
	if remaining := time.Until(claims.ExpiresAt.Time); remaining > auth.RestrictedTTL {
		t.Fatalf("restricted token lives %s, longer than %s", remaining, auth.RestrictedTTL)
	}

	// A restricted session must not reach the directory.
	status, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/employees", details.TempToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for restricted token on directory, got %d", status)
	}

	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/change-password", details.TempToken, map[string]any{
		"newPassword": "fresh-pass",
	})
	if status != http.StatusOK {
		t.Fatalf("change-password with temp token failed: %d %+v", status, env.Error)
	}

	if got := login(t, client, ts.URL, employeeID, "fresh-pass"); got == "" {
		t.Fatal("expected a full session token after setting a password")
	}
}

func TestPayrollRunIdempotenceAndZeroActive(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	token := login(t, client, ts.URL, cfg.SeedAdminID, cfg.SeedAdminPassword)
	employeeID := createEmployee(t, client, ts.URL, token, nil)

	status, env := doJSON(t, client, http.MethodPut, ts.URL+"/api/salaries/"+employeeID, token, map[string]any{
		"base_salary":    60000000,
		"bank_name":      "Test Bank",
		"account_number": "110-2345-6789",
	})
	if status >= 400 {
		t.Fatalf("salary upsert failed: %d %+v", status, env.Error)
	}

	status, env = doJSON(t, client, http.MethodPut, ts.URL+"/api/settings/payroll", token, map[string]any{
		"payroll_bonus":      "100000",
		"payroll_deductions": "50000",
	})
	if status >= 400 {
		t.Fatalf("settings update failed: %d %+v", status, env.Error)
	}

	first := runPayroll(t, client, ts.URL, token, 2044, 6)
	if first == 0 {
		t.Fatal("expected at least one payroll record on first run")
	}

	firstHistory := monthHistory(t, client, ts.URL, token, 2044, 6)
	record, ok := firstHistory[employeeID]
	if !ok {
		t.Fatalf("expected a record for %s, history: %v", employeeID, firstHistory)
	}
	if record["basePay"] != 5000000.0 || record["bonus"] != 100000.0 || record["deductions"] != 50000.0 || record["netPay"] != 5050000.0 {
		t.Fatalf("unexpected pay amounts: %v", record)
	}
	payDate, _ := record["payDate"].(string)
	if !bytes.HasPrefix([]byte(payDate), []byte("2044-06-25")) {
		t.Fatalf("expected pay date on the 25th, got %q", payDate)
	}

	// Re-running the same month with unchanged inputs must reproduce
	// the exact record set.
	second := runPayroll(t, client, ts.URL, token, 2044, 6)
	if second != first {
		t.Fatalf("expected %d records on re-run, got %d", first, second)
	}
	secondHistory := monthHistory(t, client, ts.URL, token, 2044, 6)
	if !reflect.DeepEqual(firstHistory, secondHistory) {
		t.Fatalf("expected identical record sets across runs:\nfirst:  %v\nsecond: %v", firstHistory, secondHistory)
	}

	// With nobody active the run still succeeds and commits an empty
	// month.
	if _, err := app.DB.Exec(context.Background(), "UPDATE employees SET status = 'terminated'"); err != nil {
		t.Fatalf("failed to deactivate employees: %v", err)
	}
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/payroll/run", token, map[string]any{
		"year": 2045, "month": 1,
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 for zero-active run, got %d %+v", status, env.Error)
	}
	var result struct {
		Records int `json:"records"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("failed to decode run result: %v", err)
	}
	if result.Records != 0 {
		t.Fatalf("expected zero records, got %d", result.Records)
	}
	var rows int
	if err := app.DB.QueryRow(context.Background(), `
    SELECT COUNT(1) FROM payroll_history
    WHERE EXTRACT(YEAR FROM pay_date) = 2045 AND EXTRACT(MONTH FROM pay_date) = 1
  `).Scan(&rows); err != nil {
		t.Fatalf("failed to count payroll rows: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected no committed rows for the empty month, got %d", rows)
	}
}

func runPayroll(t *testing.T, client *http.Client, baseURL, token string, year, month int) int {
	t.Helper()
	status, env := doJSON(t, client, http.MethodPost, baseURL+"/api/payroll/run", token, map[string]any{
		"year": year, "month": month,
	})
	if status != http.StatusOK && status != http.StatusCreated {
		t.Fatalf("payroll run failed: %d %+v", status, env.Error)
	}
	var result struct {
		Records int `json:"records"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("failed to decode run result: %v", err)
	}
	return result.Records
}

// monthHistory returns the month's records keyed by employee id, with
// the row id and timestamps stripped so runs can be compared.
func monthHistory(t *testing.T, client *http.Client, baseURL, token string, year, month int) map[string]map[string]any {
	t.Helper()
	status, env := doJSON(t, client, http.MethodGet,
		fmt.Sprintf("%s/api/payroll/history?year=%d&month=%d", baseURL, year, month), token, nil)
	if status != http.StatusOK {
		t.Fatalf("payroll history failed: %d %+v", status, env.Error)
	}
	var records []map[string]any
	if err := json.Unmarshal(env.Data, &records); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	byEmployee := make(map[string]map[string]any, len(records))
	for _, record := range records {
		delete(record, "id")
		delete(record, "createdAt")
		id, _ := record["employeeId"].(string)
		byEmployee[id] = record
	}
	return byEmployee
}

func createDepartment(t *testing.T, client *http.Client, baseURL, token, name string, parentID *int) int {
	t.Helper()
	body := map[string]any{"name": name}
	if parentID != nil {
		body["parent_id"] = *parentID
	}
	status, env := doJSON(t, client, http.MethodPost, baseURL+"/api/departments", token, body)
	if status != http.StatusCreated {
		t.Fatalf("create department failed: %d %+v", status, env.Error)
	}
	var dept struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &dept); err != nil {
		t.Fatalf("failed to decode department: %v", err)
	}
	if dept.ID == 0 {
		t.Fatal("expected department id")
	}
	return dept.ID
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token string, deptID *int) string {
	t.Helper()
	nano := time.Now().UnixNano()
	body := map[string]any{
		"id":     fmt.Sprintf("E%d", nano),
		"name":   "Journey Tester",
		"email":  fmt.Sprintf("journey-%d@test.local", nano),
		"status": "active",
	}
	if deptID != nil {
		body["dept_id"] = *deptID
	}
	status, env := doJSON(t, client, http.MethodPost, baseURL+"/api/employees", token, body)
	if status != http.StatusCreated {
		t.Fatalf("create employee failed: %d %+v", status, env.Error)
	}
	var employee struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &employee); err != nil {
		t.Fatalf("failed to decode employee: %v", err)
	}
	if employee.ID == "" {
		t.Fatal("expected employee id")
	}
	return employee.ID
}

func login(t *testing.T, client *http.Client, baseURL, employeeID, password string) string {
	t.Helper()
	status, env := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", "", map[string]any{
		"employee_id": employeeID,
		"password":    password,
	})
	if status != http.StatusOK {
		t.Fatalf("login failed: %d %+v", status, env.Error)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("expected token")
	}
	return payload.Token
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode envelope %q: %v", string(raw), err)
	}
	return resp.StatusCode, env
}
