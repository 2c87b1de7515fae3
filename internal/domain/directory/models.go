package directory

import "time"

const (
	StatusActive     = "active"
	StatusLeave      = "leave"
	StatusTerminated = "terminated"
)

type Department struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int      `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
}

type JobPosition struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Level       int       `json:"level"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Employee struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Status           string    `json:"status"`
	Role             string    `json:"role"`
	DeptID           *int      `json:"deptId"`
	DeptName         string    `json:"deptName"`
	JobPositionID    *int      `json:"jobPositionId"`
	JobPositionName  string    `json:"jobPositionName"`
	JobPositionLevel *int      `json:"jobPositionLevel"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// EmployeeFilter combines with logical AND. Zero values mean
// "no filter" for their field.
type EmployeeFilter struct {
	Search        string
	Status        string
	DeptID        int
	JobPositionID int
}

type CreateEmployeeInput struct {
	ID            string
	Name          string
	Email         string
	Status        string
	DeptID        int
	JobPositionID int
}

// UpdateEmployeeInput carries partial replacements; nil fields keep
// their stored value. The business key is never updatable.
type UpdateEmployeeInput struct {
	Name          *string
	Email         *string
	Status        *string
	DeptID        *int
	JobPositionID *int
}
