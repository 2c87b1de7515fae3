package directory

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, parent_id, created_at
    FROM departments
    ORDER BY parent_id NULLS FIRST, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.ParentID, &dept.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}
	return departments, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, id int) (*Department, error) {
	var dept Department
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, parent_id, created_at
    FROM departments
    WHERE id = $1
  `, id).Scan(&dept.ID, &dept.Name, &dept.ParentID, &dept.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (s *Store) CreateDepartment(ctx context.Context, name string, parentID *int) (*Department, error) {
	var id int
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, parent_id)
    VALUES ($1, $2)
    RETURNING id
  `, name, parentID).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetDepartment(ctx, id)
}

// UpdateDepartment rejects any parent assignment that would make the
// hierarchy cyclic, including pointing a department at itself.
func (s *Store) UpdateDepartment(ctx context.Context, id int, name string, parentID *int) (*Department, error) {
	if parentID != nil {
		if *parentID == id {
			return nil, ErrDepartmentCycle
		}
		cyclic, err := s.isAncestor(ctx, id, *parentID)
		if err != nil {
			return nil, err
		}
		if cyclic {
			return nil, ErrDepartmentCycle
		}
	}

	tag, err := s.DB.Exec(ctx, `
    UPDATE departments SET name = $1, parent_id = $2 WHERE id = $3
  `, name, parentID, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetDepartment(ctx, id)
}

// isAncestor walks up from candidate's parent chain and reports
// whether dept appears in it.
func (s *Store) isAncestor(ctx context.Context, dept, candidate int) (bool, error) {
	var found bool
	err := s.DB.QueryRow(ctx, `
    WITH RECURSIVE ancestors AS (
      SELECT id, parent_id FROM departments WHERE id = $2
      UNION ALL
      SELECT d.id, d.parent_id
      FROM departments d
      JOIN ancestors a ON d.id = a.parent_id
    )
    SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $1)
  `, dept, candidate).Scan(&found)
	return found, err
}

// DeleteDepartment refuses to delete while child departments or
// assigned employees exist, so an org subtree can never be orphaned by
// accident.
func (s *Store) DeleteDepartment(ctx context.Context, id int) error {
	var children int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM departments WHERE parent_id = $1", id).Scan(&children); err != nil {
		return err
	}
	if children > 0 {
		return ErrDepartmentHasChildren
	}

	var assigned int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE dept_id = $1", id).Scan(&assigned); err != nil {
		return err
	}
	if assigned > 0 {
		return ErrDepartmentHasEmployees
	}

	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const employeeColumns = `
    e.id, e.name, e.email, e.status, e.role,
    e.dept_id, COALESCE(d.name, ''),
    e.job_position_id, COALESCE(jp.name, ''), jp.level,
    e.created_at, e.updated_at`

// buildEmployeeQuery composes the optional search filters with AND.
func buildEmployeeQuery(filter EmployeeFilter) (string, []any, error) {
	builder := sq.Select(employeeColumns).
		From("employees e").
		LeftJoin("departments d ON e.dept_id = d.id").
		LeftJoin("job_positions jp ON e.job_position_id = jp.id").
		PlaceholderFormat(sq.Dollar).
		OrderBy("e.id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"e.name": pattern},
			sq.Like{"e.id": pattern},
		})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"e.status": filter.Status})
	}
	if filter.DeptID != 0 {
		builder = builder.Where(sq.Eq{"e.dept_id": filter.DeptID})
	}
	if filter.JobPositionID != 0 {
		builder = builder.Where(sq.Eq{"e.job_position_id": filter.JobPositionID})
	}

	return builder.ToSql()
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	query, args, err := buildEmployeeQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(
			&emp.ID, &emp.Name, &emp.Email, &emp.Status, &emp.Role,
			&emp.DeptID, &emp.DeptName,
			&emp.JobPositionID, &emp.JobPositionName, &emp.JobPositionLevel,
			&emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees e
    LEFT JOIN departments d ON e.dept_id = d.id
    LEFT JOIN job_positions jp ON e.job_position_id = jp.id
    WHERE e.id = $1
  `, id).Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Status, &emp.Role,
		&emp.DeptID, &emp.DeptName,
		&emp.JobPositionID, &emp.JobPositionName, &emp.JobPositionLevel,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*Employee, error) {
	status := input.Status
	if status == "" {
		status = StatusActive
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, name, email, status, dept_id, job_position_id)
    VALUES ($1, $2, $3, $4, $5, $6)
  `, input.ID, input.Name, input.Email, status, input.DeptID, input.JobPositionID)
	if IsUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return s.GetEmployee(ctx, input.ID)
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, input UpdateEmployeeInput) (*Employee, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = COALESCE($1, name),
        email = COALESCE($2, email),
        status = COALESCE($3, status),
        dept_id = COALESCE($4, dept_id),
        job_position_id = COALESCE($5, job_position_id),
        updated_at = now()
    WHERE id = $6
  `, input.Name, input.Email, input.Status, input.DeptID, input.JobPositionID, id)
	if IsUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetEmployee(ctx, id)
}

// DeleteEmployee is a hard delete; the schema cascades to salary,
// payroll history, attendance, evaluations and career rows.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListPositions(ctx context.Context) ([]JobPosition, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, level, COALESCE(description, ''), created_at
    FROM job_positions
    ORDER BY level
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []JobPosition
	for rows.Next() {
		var pos JobPosition
		if err := rows.Scan(&pos.ID, &pos.Name, &pos.Level, &pos.Description, &pos.CreatedAt); err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

func (s *Store) GetPosition(ctx context.Context, id int) (*JobPosition, error) {
	var pos JobPosition
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, level, COALESCE(description, ''), created_at
    FROM job_positions
    WHERE id = $1
  `, id).Scan(&pos.ID, &pos.Name, &pos.Level, &pos.Description, &pos.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func (s *Store) CreatePosition(ctx context.Context, name string, level int, description string) (*JobPosition, error) {
	var id int
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_positions (name, level, description)
    VALUES ($1, $2, NULLIF($3, ''))
    RETURNING id
  `, name, level, description).Scan(&id)
	if IsUniqueViolation(err) {
		return nil, ErrDuplicatePosition
	}
	if err != nil {
		return nil, err
	}
	return s.GetPosition(ctx, id)
}

func (s *Store) UpdatePosition(ctx context.Context, id int, name string, level int, description string) (*JobPosition, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE job_positions
    SET name = $1, level = $2, description = NULLIF($3, '')
    WHERE id = $4
  `, name, level, description, id)
	if IsUniqueViolation(err) {
		return nil, ErrDuplicatePosition
	}
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetPosition(ctx, id)
}

func (s *Store) DeletePosition(ctx context.Context, id int) error {
	var referenced int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE job_position_id = $1", id).Scan(&referenced); err != nil {
		return err
	}
	if referenced > 0 {
		return ErrPositionInUse
	}

	tag, err := s.DB.Exec(ctx, "DELETE FROM job_positions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
