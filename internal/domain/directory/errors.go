package directory

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicate              = errors.New("duplicate id or email")
	ErrDuplicatePosition      = errors.New("position name or level already in use")
	ErrDepartmentHasChildren  = errors.New("department has child departments")
	ErrDepartmentHasEmployees = errors.New("department has assigned employees")
	ErrDepartmentCycle        = errors.New("department parent would create a cycle")
	ErrPositionInUse          = errors.New("position is referenced by employees")
)

// IsUniqueViolation reports whether err is a Postgres unique
// constraint failure (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports SQLSTATE 23503, e.g. a reference to a
// department or position that does not exist.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
