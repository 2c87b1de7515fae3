package career

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("career record not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Summary collects all four career ledgers for one employee.
func (s *Store) Summary(ctx context.Context, employeeID string) (*Summary, error) {
	summary := &Summary{
		Certifications: []Certification{},
		Training:       []Training{},
		Awards:         []Award{},
		Projects:       []Project{},
	}

	var err error
	if summary.Certifications, err = s.listCertifications(ctx, employeeID); err != nil {
		return nil, err
	}
	if summary.Training, err = s.listTraining(ctx, employeeID); err != nil {
		return nil, err
	}
	if summary.Awards, err = s.listAwards(ctx, employeeID); err != nil {
		return nil, err
	}
	if summary.Projects, err = s.listProjects(ctx, employeeID); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *Store) listCertifications(ctx context.Context, employeeID string) ([]Certification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, name, COALESCE(issuer, ''), issue_date, expiry_date, COALESCE(cert_number, '')
    FROM employee_certifications
    WHERE employee_id = $1
    ORDER BY issue_date DESC, id
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Certification{}
	for rows.Next() {
		var item Certification
		if err := rows.Scan(&item.ID, &item.EmployeeID, &item.Name, &item.Issuer, &item.IssueDate, &item.ExpiryDate, &item.CertNumber); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) CreateCertification(ctx context.Context, item Certification) (int, error) {
	var id int
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_certifications (employee_id, name, issuer, issue_date, expiry_date, cert_number)
    VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''))
    RETURNING id
  `, item.EmployeeID, item.Name, item.Issuer, item.IssueDate, item.ExpiryDate, item.CertNumber).Scan(&id)
	return id, err
}

func (s *Store) UpdateCertification(ctx context.Context, id int, name, issuer string, issueDate time.Time, expiryDate *time.Time, certNumber string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employee_certifications
    SET name = $1, issuer = NULLIF($2, ''), issue_date = $3, expiry_date = $4, cert_number = NULLIF($5, '')
    WHERE id = $6
  `, name, issuer, issueDate, expiryDate, certNumber, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCertification(ctx context.Context, id int) error {
	return s.deleteByID(ctx, "employee_certifications", id)
}

func (s *Store) listTraining(ctx context.Context, employeeID string) ([]Training, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, course_name, COALESCE(institution, ''), start_date, end_date, COALESCE(description, '')
    FROM employee_training
    WHERE employee_id = $1
    ORDER BY start_date DESC, id
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Training{}
	for rows.Next() {
		var item Training
		if err := rows.Scan(&item.ID, &item.EmployeeID, &item.CourseName, &item.Institution, &item.StartDate, &item.EndDate, &item.Description); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) CreateTraining(ctx context.Context, item Training) (int, error) {
	var id int
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_training (employee_id, course_name, institution, start_date, end_date, description)
    VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''))
    RETURNING id
  `, item.EmployeeID, item.CourseName, item.Institution, item.StartDate, item.EndDate, item.Description).Scan(&id)
	return id, err
}

func (s *Store) UpdateTraining(ctx context.Context, id int, courseName, institution string, startDate time.Time, endDate *time.Time, description string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employee_training
    SET course_name = $1, institution = NULLIF($2, ''), start_date = $3, end_date = $4, description = NULLIF($5, '')
    WHERE id = $6
  `, courseName, institution, startDate, endDate, description, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTraining(ctx context.Context, id int) error {
	return s.deleteByID(ctx, "employee_training", id)
}

func (s *Store) listAwards(ctx context.Context, employeeID string) ([]Award, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, award_name, COALESCE(issuer, ''), award_date, COALESCE(description, '')
    FROM employee_awards
    WHERE employee_id = $1
    ORDER BY award_date DESC, id
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Award{}
	for rows.Next() {
		var item Award
		if err := rows.Scan(&item.ID, &item.EmployeeID, &item.AwardName, &item.Issuer, &item.AwardDate, &item.Description); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) CreateAward(ctx context.Context, item Award) (int, error) {
	var id int
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_awards (employee_id, award_name, issuer, award_date, description)
    VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''))
    RETURNING id
  `, item.EmployeeID, item.AwardName, item.Issuer, item.AwardDate, item.Description).Scan(&id)
	return id, err
}

func (s *Store) UpdateAward(ctx context.Context, id int, awardName, issuer string, awardDate time.Time, description string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employee_awards
    SET award_name = $1, issuer = NULLIF($2, ''), award_date = $3, description = NULLIF($4, '')
    WHERE id = $5
  `, awardName, issuer, awardDate, description, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAward(ctx context.Context, id int) error {
	return s.deleteByID(ctx, "employee_awards", id)
}

func (s *Store) listProjects(ctx context.Context, employeeID string) ([]Project, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, project_name, start_date, end_date, COALESCE(role, ''), COALESCE(description, '')
    FROM employee_projects
    WHERE employee_id = $1
    ORDER BY start_date DESC, id
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Project{}
	for rows.Next() {
		var item Project
		if err := rows.Scan(&item.ID, &item.EmployeeID, &item.ProjectName, &item.StartDate, &item.EndDate, &item.Role, &item.Description); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) CreateProject(ctx context.Context, item Project) (int, error) {
	var id int
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_projects (employee_id, project_name, start_date, end_date, role, description)
    VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
    RETURNING id
  `, item.EmployeeID, item.ProjectName, item.StartDate, item.EndDate, item.Role, item.Description).Scan(&id)
	return id, err
}

func (s *Store) UpdateProject(ctx context.Context, id int, projectName string, startDate time.Time, endDate *time.Time, role, description string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employee_projects
    SET project_name = $1, start_date = $2, end_date = $3, role = NULLIF($4, ''), description = NULLIF($5, '')
    WHERE id = $6
  `, projectName, startDate, endDate, role, description, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id int) error {
	return s.deleteByID(ctx, "employee_projects", id)
}

func (s *Store) deleteByID(ctx context.Context, table string, id int) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
