package schema

// RecurrenceCount is derived on every request from the history and the watermark.
// It is never persisted.
type RecurrenceCount struct {
	Weekly             int  `json:"weekly"`
	Monthly            int  `json:"monthly"`
	ShowMonthly        bool `json:"show_monthly"`
	WasReset           bool `json:"was_reset"`
	FirstReportDaysAgo int  `json:"first_report_days_ago"`
}

type DecisionKind string

const (
	DecisionStandard  DecisionKind = "standard"
	DecisionWarning   DecisionKind = "warning"
	DecisionEmergency DecisionKind = "emergency"
)

// Decision is the outcome of the risk and threshold gate.
type Decision struct {
	Kind             DecisionKind           `json:"decision"`
	RiskScore        float64                `json:"risk_score"`
	AdviceID         string                 `json:"-"`
	AdviceData       map[string]interface{} `json:"-"`
	Medication       string                 `json:"medication"`
	Warnings         []string               `json:"warnings"`
	ThresholdCrossed bool                   `json:"threshold_crossed"`
	ThresholdLimit   int                    `json:"threshold_limit"`
}
