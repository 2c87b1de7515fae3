// Package attendance is a date-keyed ledger: one row per employee per
// calendar day, last write wins.
package attendance

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	StatusPresent   = "present"
	StatusHalfDayAM = "half_day_am"
	StatusHalfDayPM = "half_day_pm"
	StatusVacation  = "vacation"
	StatusSick      = "sick"
	StatusAbsent    = "absent"
)

// Statuses lists every legal attendance status for validation.
var Statuses = []string{
	StatusPresent, StatusHalfDayAM, StatusHalfDayPM,
	StatusVacation, StatusSick, StatusAbsent,
}

type Record struct {
	ID           int       `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	DeptName     string    `json:"deptName"`
	RecordDate   time.Time `json:"recordDate"`
	Status       string    `json:"status"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListMonth(ctx context.Context, year, month int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, a.employee_id, e.name, COALESCE(d.name, ''), a.record_date, a.status
    FROM attendance a
    JOIN employees e ON a.employee_id = e.id
    LEFT JOIN departments d ON e.dept_id = d.id
    WHERE EXTRACT(YEAR FROM a.record_date) = $1 AND EXTRACT(MONTH FROM a.record_date) = $2
    ORDER BY a.record_date, a.employee_id
  `, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.EmployeeName,
			&record.DeptName, &record.RecordDate, &record.Status,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Upsert overwrites any prior status for that (employee, date); no
// history of earlier statuses is kept.
func (s *Store) Upsert(ctx context.Context, employeeID string, date time.Time, status string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO attendance (employee_id, record_date, status)
    VALUES ($1, $2, $3)
    ON CONFLICT (employee_id, record_date) DO UPDATE
    SET status = EXCLUDED.status, updated_at = now()
  `, employeeID, date, status)
	return err
}

// ValidStatus reports whether status is a known attendance status.
func ValidStatus(status string) bool {
	for _, candidate := range Statuses {
		if status == candidate {
			return true
		}
	}
	return false
}
