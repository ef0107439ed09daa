package score

import (
	"time"

	"github.com/bitmark-inc/recurrence-api/consts"
)

// InWindow reports whether t falls into the trailing window ending at now.
// The boundary now-window is inclusive. Timestamps after now are inside.
func InWindow(now, t time.Time, window time.Duration) bool {
	return now.Sub(t) <= window
}

// AfterWatermark reports whether t is strictly after the watermark. A nil
// watermark admits every timestamp.
func AfterWatermark(t time.Time, watermark *time.Time) bool {
	return watermark == nil || t.After(*watermark)
}

// CountWindow counts the timestamps inside the trailing window which are not
// suppressed by the watermark.
func CountWindow(now time.Time, window time.Duration, timestamps []time.Time, watermark *time.Time) int {
	count := 0
	for _, t := range timestamps {
		if InWindow(now, t, window) && AfterWatermark(t, watermark) {
			count++
		}
	}
	return count
}

// DaysSince returns the number of whole days elapsed from t to now, never negative.
func DaysSince(now, t time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d / consts.Day)
}
