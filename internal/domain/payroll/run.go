package payroll

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Run regenerates the payroll ledger for one (year, month) inside a
// single transaction: the previous run for that month is deleted, the
// current salary table and settings are snapshotted, and the freshly
// computed records replace it wholesale. Any failure rolls the whole
// run back, so the ledger is never left partially written.
//
// Two concurrent runs for the same month are not deduplicated; the
// loser aborts on the (employee_id, pay_date) unique key and the
// caller retries the whole run.
func (s *Store) Run(ctx context.Context, year, month int) (*RunResult, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	payDate := PayDate(year, month)

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Delete-before-insert makes the run idempotent per month.
	if _, err := tx.Exec(ctx, `
    DELETE FROM payroll_history
    WHERE EXTRACT(YEAR FROM pay_date) = $1 AND EXTRACT(MONTH FROM pay_date) = $2
  `, year, month); err != nil {
		return nil, err
	}

	settings, err := querySettings(ctx, tx)
	if err != nil {
		return nil, err
	}
	amounts := ResolveRunAmounts(settings)

	rows, err := tx.Query(ctx, `
    SELECT e.id, s.base_salary
    FROM employees e
    JOIN salaries s ON e.id = s.employee_id
    WHERE e.status = 'active'
    ORDER BY e.id
  `)
	if err != nil {
		return nil, err
	}

	type payout struct {
		employeeID string
		baseSalary float64
	}
	var eligible []payout
	for rows.Next() {
		var p payout
		if err := rows.Scan(&p.employeeID, &p.baseSalary); err != nil {
			rows.Close()
			return nil, err
		}
		eligible = append(eligible, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A month with no eligible staff still commits the deletion, so the
	// ledger ends up empty instead of stale.
	if len(eligible) == 0 {
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return &RunResult{Year: year, Month: month, PayDate: payDate, Records: 0}, nil
	}

	batch := &pgx.Batch{}
	for _, p := range eligible {
		basePay, netPay := ComputePay(p.baseSalary, amounts)
		batch.Queue(`
      INSERT INTO payroll_history (employee_id, pay_date, base_pay, bonus, deductions, net_pay)
      VALUES ($1, $2, $3, $4, $5, $6)
    `, p.employeeID, payDate, basePay, amounts.Bonus, amounts.Deductions, netPay)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &RunResult{Year: year, Month: month, PayDate: payDate, Records: len(eligible)}, nil
}
