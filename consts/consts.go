package consts

import "time"

const (
	Day = 24 * time.Hour

	WeeklyWindow  = 7 * Day
	MonthlyWindow = 30 * Day

	// the monthly count is shown once the first report is at least this old
	ShowMonthlyAfterDays = 7

	DefaultResetTTL = 30 * Day

	// medication sentinel of an emergency decision
	ConsultDoctorFirst = "CONSULT_DOCTOR_FIRST"

	EmergencyRiskScore = 100
	MaxRiskScore       = 100
	MinRiskScore       = 0

	MedicationAdvisedScore = 50
)

const (
	ThresholdAlertTask = "record_threshold_alert"
	BackgroundQueue    = "recurrence_background"
)
