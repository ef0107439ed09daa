package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/recurrence-api/consts"
	"github.com/bitmark-inc/recurrence-api/schema"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestThresholdTable(t *testing.T) {
	table := DefaultThresholdTable()
	assert.Equal(t, 3, table.Limit("Nerve Pain"))
	assert.Equal(t, 4, table.Limit("muscle strain"))
	assert.Equal(t, 3, table.Limit("Migraine"))

	table, err := NewThresholdTable(5, map[string]int{"migraine": 2})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Limit("Migraine"))
	assert.Equal(t, 5, table.Limit("Muscle Strain"))

	_, err = NewThresholdTable(0, nil)
	assert.Error(t, err)
	_, err = NewThresholdTable(3, map[string]int{"migraine": 0})
	assert.Error(t, err)

	assert.Equal(t, DefaultWeeklyThreshold, ThresholdTable{}.Limit("anything"))
}

func TestMultipliers(t *testing.T) {
	m, err := NewMultipliers(map[string]float64{"Nerve Pain": 1.5})
	require.NoError(t, err)
	assert.Equal(t, 1.5, m.Of("nerve pain"))
	assert.Equal(t, 1.0, m.Of("Migraine"))

	_, err = NewMultipliers(map[string]float64{"Nerve Pain": -1})
	assert.Error(t, err)
}

func TestRiskScore(t *testing.T) {
	assert.Equal(t, 50.0, RiskScore(5, 30, 1))
	assert.Equal(t, 60.0, RiskScore(5, 30, 1.2))
	assert.Equal(t, 65.0, RiskScore(5, 10, 1))
	assert.Equal(t, 70.0, RiskScore(5, 70, 1))
	assert.Equal(t, 78.0, RiskScore(5, 10, 1.2))
	assert.Equal(t, 100.0, RiskScore(10, 70, 1.5))
	assert.Equal(t, 0.0, RiskScore(-3, 30, 1))
	assert.Equal(t, 50.0, RiskScore(5, 12, 1), "12 is not pediatric")
	assert.Equal(t, 50.0, RiskScore(5, 65, 1), "65 is not geriatric")
}

func TestDecideEmergency(t *testing.T) {
	d := Decide(DecisionParams{
		Condition: "Muscle Strain",
		Weekly:    4,
		Monthly:   4,
		Age:       30,
		Severity:  2,
	}, DefaultPolicy())

	assert.Equal(t, schema.DecisionEmergency, d.Kind)
	assert.True(t, d.ThresholdCrossed)
	assert.Equal(t, consts.ConsultDoctorFirst, d.Medication)
	assert.Equal(t, float64(consts.EmergencyRiskScore), d.RiskScore)
	assert.Equal(t, 4, d.ThresholdLimit)
	assert.Equal(t, []string{WarningStopMedications}, d.Warnings)
	assert.Equal(t, AdviceEmergency, d.AdviceID)
	assert.Equal(t, 4, d.AdviceData["Count"])
}

func TestDecideEmergencyIgnoresSeverityAndAge(t *testing.T) {
	for _, age := range []int{5, 40, 80} {
		for _, severity := range []int{0, 5, 10} {
			d := Decide(DecisionParams{Condition: "Nerve Pain", Weekly: 7, Age: age, Severity: severity}, DefaultPolicy())
			assert.Equal(t, schema.DecisionEmergency, d.Kind)
			assert.Equal(t, float64(consts.EmergencyRiskScore), d.RiskScore)
		}
	}
}

func TestDecideConsultedSuppressesEmergency(t *testing.T) {
	d := Decide(DecisionParams{
		Condition:    "Muscle Strain",
		Weekly:       6,
		Age:          30,
		Severity:     5,
		HasConsulted: true,
	}, DefaultPolicy())

	assert.Equal(t, schema.DecisionStandard, d.Kind)
	assert.False(t, d.ThresholdCrossed)
	assert.Equal(t, "Ibuprofen 400mg every 8h with food", d.Medication)
	assert.Equal(t, 60.0, d.RiskScore)
	assert.Equal(t, AdviceMedication, d.AdviceID)
}

func TestDecideWarningOneBelowThreshold(t *testing.T) {
	d := Decide(DecisionParams{Condition: "Muscle Strain", Weekly: 3, Age: 30, Severity: 2}, DefaultPolicy())
	assert.Equal(t, schema.DecisionWarning, d.Kind)
	assert.False(t, d.ThresholdCrossed)
	assert.Equal(t, AdviceApproaching, d.AdviceID)
	assert.Equal(t, "Ibuprofen 400mg every 8h with food", d.Medication)
	assert.Contains(t, d.Warnings, WarningApproaching)
	assert.Equal(t, 24.0, d.RiskScore)

	policy := DefaultPolicy()
	policy.ApproachingWarning = false
	d = Decide(DecisionParams{Condition: "Muscle Strain", Weekly: 3, Age: 30, Severity: 2}, policy)
	assert.Equal(t, schema.DecisionStandard, d.Kind)
	assert.NotContains(t, d.Warnings, WarningApproaching)

	d = Decide(DecisionParams{Condition: "Muscle Strain", Weekly: 3, Age: 30, Severity: 2, HasConsulted: true}, DefaultPolicy())
	assert.Equal(t, schema.DecisionStandard, d.Kind)
}

func TestDecideStandard(t *testing.T) {
	d := Decide(DecisionParams{Condition: "Nerve Pain", Weekly: 0, Age: 40, Severity: 3}, DefaultPolicy())
	assert.Equal(t, schema.DecisionStandard, d.Kind)
	assert.Equal(t, 45.0, d.RiskScore)
	assert.Equal(t, AdviceHomeCare, d.AdviceID)
	assert.Equal(t, "Gabapentin 100mg 3x daily", d.Medication)
	assert.Equal(t, 3, d.ThresholdLimit)
	assert.NotNil(t, d.Warnings)
}

func TestDecidePediatricMuscleStrain(t *testing.T) {
	d := Decide(DecisionParams{
		Condition: "Muscle Strain",
		Age:       10,
		Severity:  4,
		WeightKg:  floatPtr(30),
	}, DefaultPolicy())

	assert.Equal(t, schema.DecisionStandard, d.Kind)
	assert.Equal(t, "Acetaminophen 450mg every 6h", d.Medication)
	assert.Contains(t, d.Warnings, "Avoid NSAIDs under age 12")
}

func TestDosage(t *testing.T) {
	cases := []struct {
		condition string
		age       int
		weight    *float64
		existing  []string
		drug      string
		warnings  []string
	}{
		{"Nerve Pain", 16, nil, nil, "Consult pediatric neurologist", []string{"Not approved for patients under 18"}},
		{"Nerve Pain", 70, nil, []string{"kidney_disease"}, "Gabapentin 50mg 2x daily", []string{"Requires creatinine clearance testing"}},
		{"Nerve Pain", 70, nil, nil, "Gabapentin 50mg 2x daily", []string{}},
		{"Nerve Pain", 40, nil, []string{"kidney_disease"}, "Gabapentin 100mg 3x daily", []string{}},
		{"Muscle Strain", 8, nil, nil, "Acetaminophen 15mg/kg", []string{"Avoid NSAIDs under age 12"}},
		{"Muscle Strain", 8, floatPtr(22.5), nil, "Acetaminophen 337.5mg every 6h", []string{"Avoid NSAIDs under age 12"}},
		{"Muscle Strain", 80, nil, nil, "Naproxen 250mg every 12h with food", []string{"Monitor for GI bleeding with NSAIDs"}},
		{"muscle strain", 30, nil, nil, "Ibuprofen 400mg every 8h with food", []string{}},
		{"Migraine", 30, nil, nil, "Consult doctor", []string{}},
	}

	for _, c := range cases {
		drug, warnings := Dosage(c.condition, c.age, c.weight, c.existing)
		assert.Equal(t, c.drug, drug, "%s at %d", c.condition, c.age)
		assert.Equal(t, c.warnings, warnings, "%s at %d", c.condition, c.age)
	}
}
