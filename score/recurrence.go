package score

import (
	"time"

	"github.com/bitmark-inc/recurrence-api/consts"
	"github.com/bitmark-inc/recurrence-api/schema"
)

// Evaluate counts the history entries of the target (body part, condition) in
// the weekly and monthly windows ending at now.
//
// Entries at or before an active watermark are ignored entirely. Entries which
// cannot be read are skipped and returned as parse errors; they never abort the
// evaluation. Evaluate keeps no state between calls.
func Evaluate(now time.Time, history []schema.HistoryEntry, bodyPart, condition string, watermark *schema.ResetWatermark) (schema.RecurrenceCount, []schema.ParseError) {
	now = now.UTC()
	parseErrors := make([]schema.ParseError, 0)

	var cutoff *time.Time
	active := watermark.Active(now)
	if active {
		resetAt := watermark.ResetAt.UTC()
		cutoff = &resetAt
	}

	matched := make([]time.Time, 0, len(history))
	var first *time.Time
	for i, entry := range history {
		part := entry.Part()
		if part == "" {
			parseErrors = append(parseErrors, schema.ParseError{Index: i, Field: "body_part", Reason: "missing"})
			continue
		}
		if entry.Condition == "" {
			parseErrors = append(parseErrors, schema.ParseError{Index: i, Field: "condition", Reason: "missing"})
			continue
		}

		ts := NormalizeTimestamp(entry.Timestamp)
		if !ts.Parsed {
			parseErrors = append(parseErrors, schema.ParseError{Index: i, Field: "timestamp", Reason: ts.Reason})
			continue
		}

		if !schema.SameSymptom(part, entry.Condition, bodyPart, condition) {
			continue
		}
		if !AfterWatermark(ts.Instant, cutoff) {
			continue
		}

		matched = append(matched, ts.Instant)
		if first == nil || ts.Instant.Before(*first) {
			t := ts.Instant
			first = &t
		}
	}

	count := schema.RecurrenceCount{
		Weekly:   CountWindow(now, consts.WeeklyWindow, matched, cutoff),
		Monthly:  CountWindow(now, consts.MonthlyWindow, matched, cutoff),
		WasReset: active,
	}
	if first != nil {
		count.FirstReportDaysAgo = DaysSince(now, *first)
	}
	count.ShowMonthly = count.FirstReportDaysAgo >= consts.ShowMonthlyAfterDays

	return count, parseErrors
}
