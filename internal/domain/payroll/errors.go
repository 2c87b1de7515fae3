package payroll

import "errors"

var (
	ErrInvalidMonth   = errors.New("month must be between 1 and 12")
	ErrRecordNotFound = errors.New("payroll record not found")
)
