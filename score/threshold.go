package score

import (
	"fmt"

	"github.com/bitmark-inc/recurrence-api/schema"
)

const (
	NervePain    = "Nerve Pain"
	MuscleStrain = "Muscle Strain"

	DefaultWeeklyThreshold = 3
)

// DefaultThresholds are the weekly limits used when no table is configured,
// taken from the first server release.
var DefaultThresholds = map[string]int{
	NervePain:    3,
	MuscleStrain: 4,
}

var DefaultConditionMultipliers = map[string]float64{
	NervePain:    1.5,
	MuscleStrain: 1.2,
}

// ThresholdTable maps conditions to their weekly emergency threshold. Keys are
// compared case-insensitively.
type ThresholdTable struct {
	defaultLimit int
	limits       map[string]int
}

// NewThresholdTable validates and normalizes a threshold mapping.
func NewThresholdTable(defaultLimit int, limits map[string]int) (ThresholdTable, error) {
	if defaultLimit < 1 {
		return ThresholdTable{}, fmt.Errorf("default threshold must be positive, got %d", defaultLimit)
	}
	t := ThresholdTable{
		defaultLimit: defaultLimit,
		limits:       make(map[string]int, len(limits)),
	}
	for condition, limit := range limits {
		if limit < 1 {
			return ThresholdTable{}, fmt.Errorf("threshold of %q must be positive, got %d", condition, limit)
		}
		t.limits[schema.NormalizeKey(condition)] = limit
	}
	return t, nil
}

// DefaultThresholdTable returns the built-in table.
func DefaultThresholdTable() ThresholdTable {
	t, _ := NewThresholdTable(DefaultWeeklyThreshold, DefaultThresholds)
	return t
}

// Limit returns the weekly threshold of the condition.
func (t ThresholdTable) Limit(condition string) int {
	if limit, ok := t.limits[schema.NormalizeKey(condition)]; ok {
		return limit
	}
	if t.defaultLimit < 1 {
		return DefaultWeeklyThreshold
	}
	return t.defaultLimit
}

// Limits returns a copy of the per-condition limits, keyed by normalized condition.
func (t ThresholdTable) Limits() map[string]int {
	limits := make(map[string]int, len(t.limits))
	for condition, limit := range t.limits {
		limits[condition] = limit
	}
	return limits
}

func (t ThresholdTable) DefaultLimit() int {
	return t.Limit("")
}

// Multipliers maps conditions to their risk score multiplier.
type Multipliers map[string]float64

// NewMultipliers normalizes the condition keys of a multiplier mapping.
func NewMultipliers(m map[string]float64) (Multipliers, error) {
	result := make(Multipliers, len(m))
	for condition, factor := range m {
		if factor <= 0 {
			return nil, fmt.Errorf("multiplier of %q must be positive, got %v", condition, factor)
		}
		result[schema.NormalizeKey(condition)] = factor
	}
	return result, nil
}

func (m Multipliers) Of(condition string) float64 {
	if factor, ok := m[schema.NormalizeKey(condition)]; ok {
		return factor
	}
	return 1
}

// Policy groups the configurable parts of the decision.
type Policy struct {
	Thresholds  ThresholdTable
	Multipliers Multipliers

	// emit a Warning decision one report before the threshold
	ApproachingWarning bool
}

func DefaultPolicy() Policy {
	m, _ := NewMultipliers(DefaultConditionMultipliers)
	return Policy{
		Thresholds:         DefaultThresholdTable(),
		Multipliers:        m,
		ApproachingWarning: true,
	}
}
