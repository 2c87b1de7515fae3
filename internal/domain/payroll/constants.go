package payroll

const (
	// SettingPrefix namespaces every payroll setting key in
	// system_settings.
	SettingPrefix = "payroll_"

	SettingBonus      = "payroll_bonus"
	SettingDeductions = "payroll_deductions"

	// PayDayOfMonth is the fixed day payroll is dated on. Policy
	// constant, not configuration.
	PayDayOfMonth = 25
)
