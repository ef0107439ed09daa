package score

import (
	"fmt"
	"strconv"

	"github.com/bitmark-inc/recurrence-api/schema"
)

const (
	pediatricAge = 12
	adultAge     = 18
	geriatricAge = 65

	// acetaminophen mg per kg of body weight
	acetaminophenPerKg = 15

	kidneyDisease = "kidney_disease"
)

// Dosage returns the recommended medication and its warnings. It is a pure
// lookup on condition, age band, weight and pre-existing conditions.
func Dosage(condition string, age int, weightKg *float64, existingConditions []string) (string, []string) {
	warnings := make([]string, 0)

	switch schema.NormalizeKey(condition) {
	case schema.NormalizeKey(NervePain):
		switch {
		case age < adultAge:
			return "Consult pediatric neurologist", append(warnings, "Not approved for patients under 18")
		case age > geriatricAge:
			if hasCondition(existingConditions, kidneyDisease) {
				warnings = append(warnings, "Requires creatinine clearance testing")
			}
			return "Gabapentin 50mg 2x daily", warnings
		default:
			return "Gabapentin 100mg 3x daily", warnings
		}

	case schema.NormalizeKey(MuscleStrain):
		switch {
		case age < pediatricAge:
			dosage := fmt.Sprintf("Acetaminophen %dmg/kg", acetaminophenPerKg)
			if weightKg != nil && *weightKg > 0 {
				mg := strconv.FormatFloat(acetaminophenPerKg * *weightKg, 'f', -1, 64)
				dosage = fmt.Sprintf("Acetaminophen %smg every 6h", mg)
			}
			return dosage, append(warnings, "Avoid NSAIDs under age 12")
		case age > geriatricAge:
			warnings = append(warnings, "Monitor for GI bleeding with NSAIDs")
			return "Naproxen 250mg every 12h with food", warnings
		default:
			return "Ibuprofen 400mg every 8h with food", warnings
		}
	}

	return "Consult doctor", warnings
}

func hasCondition(conditions []string, target string) bool {
	for _, c := range conditions {
		if schema.NormalizeKey(c) == target {
			return true
		}
	}
	return false
}
