package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePayslipPDF renders a stored payroll record as a one-page
// payslip.
func WritePayslipPDF(w io.Writer, record *Record) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", record.EmployeeName, record.EmployeeID))
	pdf.Ln(7)
	if record.DeptName != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Department: %s", record.DeptName))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Pay date: %s", record.PayDate.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Base pay: %.2f", record.BasePay))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Bonus: %.2f", record.Bonus))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f", record.Deductions))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %.2f", record.NetPay))
	return pdf.Output(w)
}
