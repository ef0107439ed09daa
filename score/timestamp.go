package score

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// epoch values at or above this are taken as milliseconds
	epochMillisThreshold = 1e12

	// 9999-12-31T23:59:59Z
	maxEpochSeconds = 253402300799
)

var isoLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02 15:04:05Z07:00", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02", false},
}

// Timestamp is the tagged result of NormalizeTimestamp: either a parsed UTC
// instant or the reason why the raw value could not be parsed.
type Timestamp struct {
	Instant time.Time
	Parsed  bool
	Reason  string
}

func parsed(t time.Time) Timestamp {
	return Timestamp{Instant: t.UTC(), Parsed: true}
}

func unparseable(format string, args ...interface{}) Timestamp {
	return Timestamp{Reason: fmt.Sprintf(format, args...)}
}

// NormalizeTimestamp converts the timestamp representations seen from
// heterogeneous producers into a UTC instant. Values without a zone are UTC.
func NormalizeTimestamp(raw interface{}) Timestamp {
	switch v := raw.(type) {
	case nil:
		return unparseable("missing")
	case time.Time:
		if v.IsZero() {
			return unparseable("zero time")
		}
		return parsed(v)
	case *time.Time:
		if v == nil {
			return unparseable("missing")
		}
		return NormalizeTimestamp(*v)
	case string:
		return parseISO(v)
	case float64:
		return fromEpoch(v)
	case int64:
		return fromEpoch(float64(v))
	case int:
		return fromEpoch(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return unparseable("invalid number %q", v.String())
		}
		return fromEpoch(f)
	case map[string]interface{}:
		return fromSecondsObject(v)
	default:
		return unparseable("unsupported type %T", raw)
	}
}

func parseISO(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return unparseable("empty string")
	}
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}

	for _, l := range isoLayouts {
		var t time.Time
		var err error
		if l.zoned {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, time.UTC)
		}
		if err == nil {
			return parsed(t)
		}
	}
	return unparseable("not an ISO-8601 timestamp: %q", s)
}

func fromEpoch(f float64) Timestamp {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return unparseable("invalid epoch %v", f)
	}
	if f >= epochMillisThreshold {
		if f/1e3 > maxEpochSeconds {
			return unparseable("epoch out of range")
		}
		ms := int64(f)
		return parsed(time.Unix(ms/1e3, (ms%1e3)*int64(time.Millisecond)))
	}
	sec, frac := math.Modf(f)
	return parsed(time.Unix(int64(sec), int64(frac*1e9)))
}

// fromSecondsObject accepts serialized Firestore / protobuf timestamps.
func fromSecondsObject(m map[string]interface{}) Timestamp {
	var seconds, nanos interface{}
	var ok bool
	if seconds, ok = m["seconds"]; ok {
		nanos = m["nanos"]
	} else if seconds, ok = m["_seconds"]; ok {
		nanos = m["_nanoseconds"]
	} else {
		return unparseable("object without seconds")
	}

	sec, ok := seconds.(float64)
	if !ok || sec <= 0 {
		return unparseable("invalid seconds %v", seconds)
	}
	if sec > maxEpochSeconds {
		return unparseable("epoch out of range")
	}
	var ns float64
	if nanos != nil {
		if ns, ok = nanos.(float64); !ok {
			return unparseable("invalid nanos %v", nanos)
		}
	}
	return parsed(time.Unix(int64(sec), int64(ns)))
}
