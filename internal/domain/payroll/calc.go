package payroll

import (
	"strconv"
	"time"
)

// ComputePay splits the annual base salary into twelve equal monthly
// payments and applies the run-wide bonus and deductions. No rounding
// here; display layers round independently.
func ComputePay(baseSalary float64, amounts RunAmounts) (basePay, netPay float64) {
	basePay = baseSalary / 12
	netPay = basePay + amounts.Bonus - amounts.Deductions
	return basePay, netPay
}

// PayDate returns the fixed pay date for a target month.
func PayDate(year, month int) time.Time {
	return time.Date(year, time.Month(month), PayDayOfMonth, 0, 0, 0, 0, time.UTC)
}

// ResolveRunAmounts parses the bonus and deduction settings out of the
// payroll namespace. Missing or non-numeric values fall back to zero;
// an unconfigured system must still run.
func ResolveRunAmounts(settings map[string]string) RunAmounts {
	return RunAmounts{
		Bonus:      settingFloat(settings, SettingBonus),
		Deductions: settingFloat(settings, SettingDeductions),
	}
}

func settingFloat(settings map[string]string, key string) float64 {
	raw, ok := settings[key]
	if !ok {
		return 0
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return parsed
}
