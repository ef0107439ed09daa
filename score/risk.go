package score

import (
	"math"

	"github.com/bitmark-inc/recurrence-api/consts"
	"github.com/bitmark-inc/recurrence-api/schema"
)

const (
	AdviceEmergency   = "advice.emergency"
	AdviceApproaching = "advice.approaching"
	AdviceMedication  = "advice.medication"
	AdviceHomeCare    = "advice.home_care"

	WarningStopMedications = "Stop all current medications until examined"
	WarningApproaching     = "One more report this week requires a doctor consultation"
)

// DecisionParams are the per-request inputs of Decide.
type DecisionParams struct {
	Condition          string
	Weekly             int
	Monthly            int
	Age                int
	Severity           int
	WeightKg           *float64
	ExistingConditions []string

	// the user confirmed a consultation, either by request flag or by an active watermark
	HasConsulted bool
}

// Decide applies the condition threshold to the recurrence counts and selects
// the emergency, warning or standard response.
func Decide(p DecisionParams, policy Policy) schema.Decision {
	limit := policy.Thresholds.Limit(p.Condition)

	if p.Weekly >= limit && !p.HasConsulted {
		return schema.Decision{
			Kind:      schema.DecisionEmergency,
			RiskScore: consts.EmergencyRiskScore,
			AdviceID:  AdviceEmergency,
			AdviceData: map[string]interface{}{
				"Condition": p.Condition,
				"Count":     p.Weekly,
			},
			Medication:       consts.ConsultDoctorFirst,
			Warnings:         []string{WarningStopMedications},
			ThresholdCrossed: true,
			ThresholdLimit:   limit,
		}
	}

	risk := RiskScore(p.Severity, p.Age, policy.Multipliers.Of(p.Condition))
	medication, warnings := Dosage(p.Condition, p.Age, p.WeightKg, p.ExistingConditions)

	d := schema.Decision{
		Kind:           schema.DecisionStandard,
		RiskScore:      risk,
		AdviceID:       AdviceHomeCare,
		Medication:     medication,
		Warnings:       warnings,
		ThresholdLimit: limit,
	}
	if risk >= consts.MedicationAdvisedScore {
		d.AdviceID = AdviceMedication
	}

	if policy.ApproachingWarning && limit > 1 && p.Weekly == limit-1 && !p.HasConsulted {
		d.Kind = schema.DecisionWarning
		d.AdviceID = AdviceApproaching
		d.AdviceData = map[string]interface{}{
			"Condition": p.Condition,
			"Count":     p.Weekly,
			"Limit":     limit,
		}
		d.Warnings = append(d.Warnings, WarningApproaching)
	}

	return d
}

// RiskScore scales the severity by age and condition and clamps it into [0, 100].
func RiskScore(severity, age int, conditionMultiplier float64) float64 {
	score := float64(severity) * 10

	switch {
	case age < pediatricAge:
		score *= 1.3
	case age > geriatricAge:
		score *= 1.4
	}
	score *= conditionMultiplier

	score = math.Max(consts.MinRiskScore, math.Min(consts.MaxRiskScore, score))
	// one decimal
	return math.Round(score*10) / 10
}
