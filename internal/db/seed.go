package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

// Seed loads a small demo directory on first boot. Every step is
// guarded by a count check so reruns are no-ops.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureDepartments(ctx, pool); err != nil {
		return err
	}
	if err := ensurePositions(ctx, pool); err != nil {
		return err
	}
	if err := ensureEmployees(ctx, pool, cfg); err != nil {
		return err
	}
	if err := ensureSalaries(ctx, pool); err != nil {
		return err
	}
	return ensurePayrollSettings(ctx, pool)
}

func ensureDepartments(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM departments").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	departments := []struct {
		id     int
		name   string
		parent *int
	}{
		{1, "Corporate Services", nil},
		{2, "Engineering", nil},
		{3, "Sales", nil},
		{4, "People Team", intPtr(1)},
		{5, "Finance", intPtr(1)},
		{6, "Platform", intPtr(2)},
		{7, "Cloud Operations", intPtr(2)},
		{8, "Backend", intPtr(6)},
		{9, "Frontend", intPtr(6)},
	}
	for _, dept := range departments {
		if _, err := pool.Exec(ctx, `
      INSERT INTO departments (id, name, parent_id) VALUES ($1, $2, $3)
    `, dept.id, dept.name, dept.parent); err != nil {
			return err
		}
	}
	// Keep the sequence ahead of the explicit ids.
	_, err := pool.Exec(ctx, "SELECT setval('departments_id_seq', (SELECT MAX(id) FROM departments))")
	return err
}

func ensurePositions(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM job_positions").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	positions := []struct {
		name  string
		level int
	}{
		{"Associate", 1},
		{"Staff", 2},
		{"Senior", 3},
		{"Principal", 4},
		{"Team Lead", 5},
	}
	for _, pos := range positions {
		if _, err := pool.Exec(ctx, `
      INSERT INTO job_positions (name, level) VALUES ($1, $2)
    `, pos.name, pos.level); err != nil {
			return err
		}
	}
	return nil
}

func ensureEmployees(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	employees := []struct {
		id     string
		name   string
		email  string
		status string
		role   string
		deptID int
		posLvl int
	}{
		{"20230104", "Kim Chulsu", "chulsu@nexus.example", "active", auth.RoleUser, 8, 3},
		{"20230215", "Lee Younghee", "younghee@nexus.example", "active", auth.RoleUser, 9, 2},
		{"20220311", "Park Jimin", "jimin@nexus.example", "active", auth.RoleAdmin, 4, 5},
		{"20210522", "Choi Yujin", "yujin@nexus.example", "leave", auth.RoleUser, 5, 3},
		{"20240101", "Jung Taeho", "taeho@nexus.example", "active", auth.RoleUser, 7, 4},
		{"20230812", "Kang Dongwon", "dongwon@nexus.example", "active", auth.RoleUser, 3, 2},
		{"20221105", "Han Sohee", "sohee@nexus.example", "active", auth.RoleUser, 4, 1},
	}

	for _, emp := range employees {
		var passwordHash *string
		if emp.id == cfg.SeedAdminID && cfg.SeedAdminPassword != "" {
			hashed, err := auth.HashPassword(cfg.SeedAdminPassword)
			if err != nil {
				return err
			}
			passwordHash = &hashed
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO employees (id, name, email, status, role, password_hash, dept_id, job_position_id)
      VALUES ($1, $2, $3, $4, $5, $6, $7, (SELECT id FROM job_positions WHERE level = $8))
    `, emp.id, emp.name, emp.email, emp.status, emp.role, passwordHash, emp.deptID, emp.posLvl); err != nil {
			return err
		}
	}
	return nil
}

func ensureSalaries(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM salaries").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	salaries := []struct {
		employeeID string
		baseSalary float64
		bank       string
		account    string
	}{
		{"20230104", 70000000, "Kookmin Bank", "111-222-333333"},
		{"20230215", 60000000, "Shinhan Bank", "222-333-444444"},
		{"20220311", 85000000, "Woori Bank", "333-444-555555"},
		{"20210522", 75000000, "Hana Bank", "444-555-666666"},
		{"20240101", 95000000, "Kookmin Bank", "555-666-777777"},
		{"20230812", 55000000, "IBK", "666-777-888888"},
		{"20221105", 45000000, "Shinhan Bank", "777-888-999999"},
	}
	for _, salary := range salaries {
		if _, err := pool.Exec(ctx, `
      INSERT INTO salaries (employee_id, base_salary, bank_name, account_number)
      VALUES ($1, $2, $3, $4)
    `, salary.employeeID, salary.baseSalary, salary.bank, salary.account); err != nil {
			return err
		}
	}
	return nil
}

func ensurePayrollSettings(ctx context.Context, pool *pgxpool.Pool) error {
	defaults := map[string]string{
		"payroll_bonus":      "0",
		"payroll_deductions": "0",
	}
	for key, value := range defaults {
		if _, err := pool.Exec(ctx, `
      INSERT INTO system_settings (setting_key, setting_value)
      VALUES ($1, $2)
      ON CONFLICT (setting_key) DO NOTHING
    `, key, value); err != nil {
			return err
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }
