package payroll

import "time"

type Salary struct {
	EmployeeID      string   `json:"employeeId"`
	EmployeeName    string   `json:"employeeName"`
	DeptName        string   `json:"deptName"`
	JobPositionName string   `json:"jobPositionName"`
	BaseSalary      *float64 `json:"baseSalary"`
	BankName        string   `json:"bankName"`
	AccountNumber   string   `json:"accountNumber"`
}

type Record struct {
	ID           int       `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	DeptName     string    `json:"deptName"`
	PayDate      time.Time `json:"payDate"`
	BasePay      float64   `json:"basePay"`
	Bonus        float64   `json:"bonus"`
	Deductions   float64   `json:"deductions"`
	NetPay       float64   `json:"netPay"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RunResult reports a completed regeneration of one month's ledger.
type RunResult struct {
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	PayDate time.Time `json:"payDate"`
	Records int       `json:"records"`
}

// RunAmounts holds the run-wide uniform bonus and deductions resolved
// from settings at the start of a run.
type RunAmounts struct {
	Bonus      float64
	Deductions float64
}
