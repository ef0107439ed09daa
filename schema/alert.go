package schema

import "time"

const (
	ThresholdAlertCollection = "thresholdAlert"
)

// ThresholdAlert is written for every emergency decision so clinicians can
// follow up on users who crossed a recurrence threshold.
type ThresholdAlert struct {
	ID             string    `json:"id" bson:"_id"`
	UserID         string    `json:"user_id" bson:"user_id"`
	BodyPart       string    `json:"body_part" bson:"body_part"`
	Condition      string    `json:"condition" bson:"condition"`
	Weekly         int       `json:"weekly" bson:"weekly"`
	ThresholdLimit int       `json:"threshold_limit" bson:"threshold_limit"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
