package payroll

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// GetSettings returns every payroll-namespaced setting as a flat map.
func (s *Store) GetSettings(ctx context.Context) (map[string]string, error) {
	return querySettings(ctx, s.DB)
}

// UpdateSettings upserts the whole mapping in one transaction; a
// failure on any key rolls back the entire batch.
func (s *Store) UpdateSettings(ctx context.Context, settings map[string]string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for key, value := range settings {
		if _, err := tx.Exec(ctx, `
      INSERT INTO system_settings (setting_key, setting_value)
      VALUES ($1, $2)
      ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value
    `, key, value); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func querySettings(ctx context.Context, q rowQuerier) (map[string]string, error) {
	rows, err := q.Query(ctx, `
    SELECT setting_key, setting_value
    FROM system_settings
    WHERE setting_key LIKE $1
  `, SettingPrefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}
