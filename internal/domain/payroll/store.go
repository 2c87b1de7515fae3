package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListSalaries(ctx context.Context) ([]Salary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.name,
           COALESCE(d.name, ''),
           COALESCE(jp.name, ''),
           s.base_salary,
           COALESCE(s.bank_name, ''),
           COALESCE(s.account_number, '')
    FROM employees e
    LEFT JOIN salaries s ON e.id = s.employee_id
    LEFT JOIN departments d ON e.dept_id = d.id
    LEFT JOIN job_positions jp ON e.job_position_id = jp.id
    ORDER BY e.id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var salaries []Salary
	for rows.Next() {
		var salary Salary
		if err := rows.Scan(
			&salary.EmployeeID, &salary.EmployeeName, &salary.DeptName,
			&salary.JobPositionName, &salary.BaseSalary, &salary.BankName,
			&salary.AccountNumber,
		); err != nil {
			return nil, err
		}
		salaries = append(salaries, salary)
	}
	return salaries, rows.Err()
}

func (s *Store) UpsertSalary(ctx context.Context, employeeID string, baseSalary float64, bankName, accountNumber string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO salaries (employee_id, base_salary, bank_name, account_number)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (employee_id) DO UPDATE
    SET base_salary = EXCLUDED.base_salary,
        bank_name = EXCLUDED.bank_name,
        account_number = EXCLUDED.account_number,
        updated_at = now()
  `, employeeID, baseSalary, bankName, accountNumber)
	return err
}

func (s *Store) ListHistory(ctx context.Context, year, month int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT h.id, h.employee_id, e.name, COALESCE(d.name, ''),
           h.pay_date, h.base_pay, h.bonus, h.deductions, h.net_pay, h.created_at
    FROM payroll_history h
    JOIN employees e ON h.employee_id = e.id
    LEFT JOIN departments d ON e.dept_id = d.id
    WHERE EXTRACT(YEAR FROM h.pay_date) = $1 AND EXTRACT(MONTH FROM h.pay_date) = $2
    ORDER BY h.employee_id
  `, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.EmployeeName, &record.DeptName,
			&record.PayDate, &record.BasePay, &record.Bonus, &record.Deductions,
			&record.NetPay, &record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Store) GetRecord(ctx context.Context, employeeID string, year, month int) (*Record, error) {
	var record Record
	err := s.DB.QueryRow(ctx, `
    SELECT h.id, h.employee_id, e.name, COALESCE(d.name, ''),
           h.pay_date, h.base_pay, h.bonus, h.deductions, h.net_pay, h.created_at
    FROM payroll_history h
    JOIN employees e ON h.employee_id = e.id
    LEFT JOIN departments d ON e.dept_id = d.id
    WHERE h.employee_id = $1
      AND EXTRACT(YEAR FROM h.pay_date) = $2 AND EXTRACT(MONTH FROM h.pay_date) = $3
  `, employeeID, year, month).Scan(
		&record.ID, &record.EmployeeID, &record.EmployeeName, &record.DeptName,
		&record.PayDate, &record.BasePay, &record.Bonus, &record.Deductions,
		&record.NetPay, &record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
