// Package evaluation stores yearly performance ratings, unique per
// (employee, year). A resubmission replaces the rating, feedback and
// evaluator of record.
package evaluation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSelfEvaluation rejects an evaluator rating themselves.
var ErrSelfEvaluation = errors.New("an evaluator cannot evaluate themselves")

var ratings = map[string]bool{"S": true, "A": true, "B": true, "C": true}

type Record struct {
	ID            int    `json:"id"`
	EmployeeID    string `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`
	EvaluatorID   string `json:"evaluatorId"`
	EvaluatorName string `json:"evaluatorName"`
	Year          int    `json:"evaluationYear"`
	Rating        string `json:"rating"`
	Feedback      string `json:"feedback"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListYear(ctx context.Context, year int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT ev.id, ev.employee_id, e.name, ev.evaluator_id, evaluator.name,
           ev.evaluation_year, ev.rating, COALESCE(ev.feedback, '')
    FROM evaluations ev
    JOIN employees e ON ev.employee_id = e.id
    JOIN employees evaluator ON ev.evaluator_id = evaluator.id
    WHERE ev.evaluation_year = $1
    ORDER BY ev.employee_id
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.EmployeeName,
			&record.EvaluatorID, &record.EvaluatorName,
			&record.Year, &record.Rating, &record.Feedback,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Upsert writes the yearly evaluation. The most recent evaluator of
// record wins, even if different from the original.
func (s *Store) Upsert(ctx context.Context, employeeID, evaluatorID string, year int, rating, feedback string) error {
	if employeeID == evaluatorID {
		return ErrSelfEvaluation
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO evaluations (employee_id, evaluator_id, evaluation_year, rating, feedback)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (employee_id, evaluation_year) DO UPDATE
    SET rating = EXCLUDED.rating,
        feedback = EXCLUDED.feedback,
        evaluator_id = EXCLUDED.evaluator_id,
        updated_at = now()
  `, employeeID, evaluatorID, year, rating, feedback)
	return err
}

// ValidRating reports whether rating is one of S, A, B, C.
func ValidRating(rating string) bool {
	return ratings[rating]
}
