package schema

import (
	"time"
)

type WatermarkState string

const (
	WatermarkUnset   WatermarkState = "unset"
	WatermarkActive  WatermarkState = "active"
	WatermarkExpired WatermarkState = "expired"
)

// ResetWatermark is the "consultation cleared" mark of a (user, body part, condition)
// key. Symptom events at or before ResetAt are not counted while the mark is active.
// A new confirmation overwrites the previous mark.
type ResetWatermark struct {
	UserID    string     `json:"user_id" gorm:"primary_key"`
	BodyPart  string     `json:"body_part" gorm:"primary_key"`
	Condition string     `json:"condition" gorm:"primary_key"`
	ResetAt   time.Time  `json:"reset_at" gorm:"not null"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	UpdatedAt time.Time  `json:"-"`
}

func (ResetWatermark) TableName() string {
	return "threshold_resets"
}

// State returns the lifecycle state of the watermark at the given time. A nil
// watermark is unset. An expired watermark is kept in storage but behaves as unset.
func (w *ResetWatermark) State(now time.Time) WatermarkState {
	if w == nil || w.ResetAt.IsZero() {
		return WatermarkUnset
	}
	if w.ExpiresAt != nil && now.After(*w.ExpiresAt) {
		return WatermarkExpired
	}
	return WatermarkActive
}

// Active is a shorthand of State(now) == WatermarkActive.
func (w *ResetWatermark) Active(now time.Time) bool {
	return w.State(now) == WatermarkActive
}

// NewResetWatermark builds the watermark written by a consultation confirmation at now.
// A zero ttl means the watermark never expires.
func NewResetWatermark(userID, bodyPart, condition string, now time.Time, ttl time.Duration) ResetWatermark {
	w := ResetWatermark{
		UserID:    userID,
		BodyPart:  NormalizeKey(bodyPart),
		Condition: NormalizeKey(condition),
		ResetAt:   now.UTC(),
	}
	if ttl > 0 {
		expiresAt := now.Add(ttl).UTC()
		w.ExpiresAt = &expiresAt
	}
	return w
}
