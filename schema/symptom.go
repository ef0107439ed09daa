package schema

import (
	"strings"
	"time"
)

const (
	SymptomReportCollection = "symptomReport"
)

// SymptomEvent is a single symptom report of a user. It is created by the
// reporting client and never mutated afterwards.
type SymptomEvent struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	BodyPart  string    `json:"body_part" bson:"body_part"`
	Condition string    `json:"condition" bson:"condition"`
	Severity  *float64  `json:"severity,omitempty" bson:"severity,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"ts"`
}

// HistoryEntry is one raw history item as sent by a client. Producers disagree
// on the body part field name and on the timestamp representation, so both are
// kept loose here and normalized by the score package.
type HistoryEntry struct {
	BodyPart      string      `json:"body_part,omitempty"`
	BodyPartCamel string      `json:"bodyPart,omitempty"`
	Condition     string      `json:"condition"`
	Timestamp     interface{} `json:"timestamp"`
	Severity      *float64    `json:"severity,omitempty"`
}

// Part returns the body part regardless of which spelling the producer used.
func (h HistoryEntry) Part() string {
	if p := strings.TrimSpace(h.BodyPart); p != "" {
		return p
	}
	return strings.TrimSpace(h.BodyPartCamel)
}

// HistoryFromEvents converts stored events into history entries carrying
// native timestamps.
func HistoryFromEvents(events []SymptomEvent) []HistoryEntry {
	history := make([]HistoryEntry, 0, len(events))
	for _, e := range events {
		history = append(history, HistoryEntry{
			BodyPart:  e.BodyPart,
			Condition: e.Condition,
			Timestamp: e.Timestamp,
			Severity:  e.Severity,
		})
	}
	return history
}

// NormalizeKey folds a body part or condition name into its comparison form.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// SameSymptom reports whether two (body part, condition) pairs refer to the same symptom.
func SameSymptom(bodyPartA, conditionA, bodyPartB, conditionB string) bool {
	return NormalizeKey(bodyPartA) == NormalizeKey(bodyPartB) &&
		NormalizeKey(conditionA) == NormalizeKey(conditionB)
}
