package payroll

import (
	"bytes"
	"testing"
	"time"
)

func TestWritePayslipPDF(t *testing.T) {
	record := &Record{
		EmployeeID:   "20230104",
		EmployeeName: "Kim Chulsu",
		DeptName:     "Backend",
		PayDate:      time.Date(2024, time.June, 25, 0, 0, 0, 0, time.UTC),
		BasePay:      5000000,
		Bonus:        100000,
		Deductions:   50000,
		NetPay:       5050000,
	}

	var buf bytes.Buffer
	if err := WritePayslipPDF(&buf, record); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got %q", buf.Bytes()[:min(16, buf.Len())])
	}
}
