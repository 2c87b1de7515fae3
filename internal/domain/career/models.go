package career

import "time"

type Certification struct {
	ID         int        `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Name       string     `json:"name"`
	Issuer     string     `json:"issuer"`
	IssueDate  time.Time  `json:"issueDate"`
	ExpiryDate *time.Time `json:"expiryDate"`
	CertNumber string     `json:"certNumber"`
}

type Training struct {
	ID          int        `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	CourseName  string     `json:"courseName"`
	Institution string     `json:"institution"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Description string     `json:"description"`
}

type Award struct {
	ID          int       `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	AwardName   string    `json:"awardName"`
	Issuer      string    `json:"issuer"`
	AwardDate   time.Time `json:"awardDate"`
	Description string    `json:"description"`
}

type Project struct {
	ID          int        `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	ProjectName string     `json:"projectName"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Role        string     `json:"role"`
	Description string     `json:"description"`
}

// Summary aggregates every career item owned by one employee.
type Summary struct {
	Certifications []Certification `json:"certifications"`
	Training       []Training      `json:"training"`
	Awards         []Award         `json:"awards"`
	Projects       []Project       `json:"projects"`
}
