package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"

	"github.com/bitmark-inc/recurrence-api/consts"
	"github.com/bitmark-inc/recurrence-api/mocks"
	"github.com/bitmark-inc/recurrence-api/schema"
	"github.com/bitmark-inc/recurrence-api/score"
	"github.com/bitmark-inc/recurrence-api/store"
)

var evaluationTime = time.Date(2020, 5, 26, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return evaluationTime.Add(-time.Duration(d) * consts.Day)
}

type testServer struct {
	server     *Server
	router     *gin.Engine
	mongo      *mocks.MockMongoStore
	background *mocks.MockTaskSender
	metrics    tally.TestScope
}

func newTestServer(t *testing.T, ctl *gomock.Controller, watermarks store.WatermarkStore) *testServer {
	gin.SetMode(gin.TestMode)

	m := mocks.NewMockMongoStore(ctl)
	b := mocks.NewMockTaskSender(ctl)
	metrics := tally.NewTestScope("", nil)

	s := NewServer(m, watermarks, b, score.DefaultPolicy(), consts.DefaultResetTTL, metrics)
	s.now = func() time.Time { return evaluationTime }

	return &testServer{
		server:     s,
		router:     s.setupRouter(),
		mongo:      m,
		background: b,
		metrics:    metrics,
	}
}

func (ts *testServer) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) counter(name string, tags map[string]string) int64 {
	for _, c := range ts.metrics.Snapshot().Counters() {
		if c.Name() != name {
			continue
		}
		match := true
		for k, v := range tags {
			if c.Tags()[k] != v {
				match = false
			}
		}
		if match {
			return c.Value()
		}
	}
	return 0
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func repeatHistory(n int, bodyPart, condition string, ts time.Time) []map[string]interface{} {
	history := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		history = append(history, map[string]interface{}{
			"body_part": bodyPart,
			"condition": condition,
			"timestamp": ts.Format(time.RFC3339),
		})
	}
	return history
}

func TestPredictEmergency(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl, store.NewMemoryWatermarkStore())
	ts.background.EXPECT().SendTask(gomock.Any()).Return(nil, nil).Times(1)

	w := ts.do("POST", "/api/predict", map[string]interface{}{
		"user_id":   "userA",
		"body_part": "Lower Back",
		"condition": "Muscle Strain",
		"severity":  3,
		"age":       35,
		"history":   repeatHistory(4, "Lower Back", "Muscle Strain", daysAgo(2)),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, true, resp["threshold_crossed"])
	assert.Equal(t, consts.ConsultDoctorFirst, resp["medication"])
	assert.Equal(t, "emergency", resp["decision"])
	assert.Equal(t, float64(100), resp["risk_score"])
	assert.Equal(t, float64(4), resp["reports_this_week"])
	assert.Equal(t, float64(4), resp["reports_this_month"])
	assert.Equal(t, float64(4), resp["threshold_limit"])
	assert.Equal(t, "EMERGENCY: Muscle Strain occurred 4x this week", resp["advice"])
	assert.Equal(t, []interface{}{score.WarningStopMedications}, resp["warnings"])
	assert.Equal(t, "week_warning", resp["timeframe"])
	assert.Equal(t, false, resp["was_reset"])
	assert.Empty(t, resp["degraded"])

	assert.Equal(t, int64(1), ts.counter("decision", map[string]string{"kind": "emergency"}))
}

func TestPredictResetSuppressesEmergency(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl, store.NewMemoryWatermarkStore())
	ts.background.EXPECT().SendTask(gomock.Any()).Times(0)

	ts.server.now = func() time.Time { return daysAgo(1) }
	w := ts.do("POST", "/api/reset-threshold", map[string]interface{}{
		"userId":    "userA",
		"bodyPart":  "Lower Back",
		"condition": "Muscle Strain",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, daysAgo(1).Format(time.RFC3339), decodeResponse(t, w)["reset_at"])

	ts.server.now = func() time.Time { return evaluationTime }
	w = ts.do("POST", "/api/predict", map[string]interface{}{
		"user_id":   "userA",
		"body_part": "Lower Back",
		"condition": "Muscle Strain",
		"severity":  3,
		"age":       35,
		"history":   repeatHistory(4, "Lower Back", "Muscle Strain", daysAgo(2)),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, false, resp["threshold_crossed"])
	assert.Equal(t, float64(0), resp["reports_this_week"])
	assert.Equal(t, float64(0), resp["reports_this_month"])
	assert.Equal(t, true, resp["was_reset"])
	assert.Equal(t, true, resp["is_cleared"])
	assert.Equal(t, "standard", resp["decision"])
	assert.Equal(t, "Ibuprofen 400mg every 8h with food", resp["medication"])
	assert.Equal(t, "new", resp["timeframe"])
}

func TestPredictPediatricDosage(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl, store.NewMemoryWatermarkStore())

	w := ts.do("POST", "/api/predict", map[string]interface{}{
		"user_id":   "userB",
		"body_part": "Shoulder",
		"condition": "Muscle Strain",
		"severity":  6,
		"age":       10,
		"weight":    20,
		"history":   []interface{}{},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, "Acetaminophen 300mg every 6h", resp["medication"])
	assert.Contains(t, resp["warnings"], "Avoid NSAIDs under age 12")
	assert.Equal(t, 93.6, resp["risk_score"])
	assert.Equal(t, "Medication advised", resp["advice"])
}

func TestPredictApproachingWarning(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl, store.NewMemoryWatermarkStore())

	w := ts.do("POST", "/api/predict", map[string]interface{}{
		"user_id":   "userA",
		"body_part": "Neck",
		"condition": "Nerve Pain",
		"severity":  2,
		"age":       40,
		"history":   repeatHistory(2, "Neck", "Nerve Pain", daysAgo(1)),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, "warning", resp["decision"])
	assert.Equal(t, false, resp["threshold_crossed"])
	assert.Contains(t, resp["warnings"], score.WarningApproaching)
	assert.Equal(t, "Gabapentin 100mg 3x daily", resp["medication"])
}

func TestPredictConsultedFlagOverridesThreshold(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl, store.NewMemoryWatermarkStore())

	w := ts.do("POST", "/api/predict", map[string]interface{}{
		"user_id":              "userA",
		"body_part":            "Neck",
		"condition":            "Nerve Pain",
		"severity":             5,
		"age":                  40,
		"has_consulted_doctor": true,
		"history":              repeatHistory(5, "Neck", "Nerve Pain", daysAgo(1)),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, "standard", resp["decision"])
	assert.Equal(t, false, resp["threshold_crossed"])
	assert.Equal(t, true, resp["override_threshold"])
	assert.Equal(t, float64(5), resp["reports_this_week"])
	assert.Equal(t, float64(75), resp["risk_score"])
}

func TestPredictReportsHistoryErrors(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl, store.NewMemoryWatermarkStore())

	w := ts.do("POST", "/api/predict", `{
		"user_id": "userA",
		"body_part": "Knee",
		"condition": "Muscle Strain",
		"severity": 1,
		"age": 30,
		"history": [
			{"bodyPart": "knee", "condition": "muscle strain", "timestamp": "2020-05-25T12:00:00"},
			{"body_part": "Knee", "condition": "Muscle Strain", "timestamp": "last tuesday"},
			"garbage",
			{"body_part": "Knee", "condition": "Muscle Strain", "timestamp": 1590321600}
		]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, float64(2), resp["reports_this_week"])

	historyErrors := resp["history_errors"].([]interface{})
	require.Len(t, historyErrors, 2)
	assert.Equal(t, float64(1), historyErrors[0].(map[string]interface{})["index"])
	assert.Equal(t, "timestamp", historyErrors[0].(map[string]interface{})["field"])
	assert.Equal(t, float64(2), historyErrors[1].(map[string]interface{})["index"])
	assert.Equal(t, "entry", historyErrors[1].(map[string]interface{})["field"])

	assert.Equal(t, int64(2), ts.counter("history_parse_error", nil))
}

func TestPredictValidation(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl, store.NewMemoryWatermarkStore())

	valid := func() map[string]interface{} {
		return map[string]interface{}{
			"user_id":   "userA",
			"body_part": "Neck",
			"condition": "Nerve Pain",
			"severity":  5,
			"age":       40,
			"history":   []interface{}{},
		}
	}

	cases := []struct {
		field string
		value interface{}
	}{
		{"user_id", ""},
		{"body_part", nil},
		{"condition", "   "},
		{"severity", 11},
		{"severity", 3.5},
		{"severity", "high"},
		{"severity", nil},
		{"age", -1},
		{"age", 131},
		{"weight", -20},
	}

	for _, c := range cases {
		body := valid()
		if c.value == nil {
			delete(body, c.field)
		} else {
			body[c.field] = c.value
		}

		w := ts.do("POST", "/api/predict", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s=%v", c.field, c.value)

		resp := decodeResponse(t, w)
		assert.Equal(t, float64(1010), resp["code"], "%s=%v", c.field, c.value)
		assert.Equal(t, c.field, resp["field"], "%s=%v", c.field, c.value)
	}

	w := ts.do("POST", "/api/predict", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, float64(1011), decodeResponse(t, w)["code"])
}

func TestPredictWatermarkUnavailable(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	watermarks := mocks.NewMockWatermarkStore(ctl)
	ts := newTestServer(t, ctl, watermarks)
	ts.background.EXPECT().SendTask(gomock.Any()).Return(nil, errors.New("broker down")).Times(1)

	watermarks.EXPECT().GetWatermark(gomock.Any(), "userA", "Lower Back", "Muscle Strain").
		Return(nil, errors.New("dial tcp 10.0.0.1:5432: i/o timeout")).Times(1)

	w := ts.do("POST", "/api/predict", map[string]interface{}{
		"user_id":   "userA",
		"body_part": "Lower Back",
		"condition": "Muscle Strain",
		"severity":  3,
		"age":       35,
		"history":   repeatHistory(4, "Lower Back", "Muscle Strain", daysAgo(2)),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, []interface{}{"watermark"}, resp["degraded"])
	assert.Equal(t, true, resp["threshold_crossed"])
	assert.Equal(t, false, resp["was_reset"])
	assert.Equal(t, int64(1), ts.counter("degraded", map[string]string{"collaborator": "watermark"}))
}

func TestPredictLoadsStoredHistory(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl, store.NewMemoryWatermarkStore())

	events := []schema.SymptomEvent{
		{UserID: "userA", BodyPart: "Neck", Condition: "Nerve Pain", Timestamp: daysAgo(10)},
		{UserID: "userA", BodyPart: "Neck", Condition: "Nerve Pain", Timestamp: daysAgo(3)},
		{UserID: "userA", BodyPart: "Knee", Condition: "Nerve Pain", Timestamp: daysAgo(3)},
	}
	ts.mongo.EXPECT().SymptomEventsSince(gomock.Any(), "userA", evaluationTime.Add(-consts.MonthlyWindow)).
		Return(events, nil).Times(1)

	w := ts.do("POST", "/api/predict", map[string]interface{}{
		"user_id":   "userA",
		"body_part": "Neck",
		"condition": "Nerve Pain",
		"severity":  1,
		"age":       40,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, float64(1), resp["reports_this_week"])
	assert.Equal(t, float64(2), resp["reports_this_month"])
	assert.Equal(t, true, resp["show_monthly"])
	assert.Equal(t, float64(10), resp["first_report_days_ago"])
}

func TestPredictHistoryUnavailable(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl, store.NewMemoryWatermarkStore())
	ts.mongo.EXPECT().SymptomEventsSince(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("server selection timeout")).Times(1)

	w := ts.do("POST", "/api/predict", map[string]interface{}{
		"user_id":   "userA",
		"body_part": "Neck",
		"condition": "Nerve Pain",
		"severity":  1,
		"age":       40,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, []interface{}{"history"}, resp["degraded"])
	assert.Equal(t, float64(0), resp["reports_this_week"])
	assert.Equal(t, "standard", resp["decision"])
}

func TestPredictLocalizedAdvice(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ts := newTestServer(t, ctl, store.NewMemoryWatermarkStore())

	w := ts.do("POST", "/api/predict", map[string]interface{}{
		"user_id":   "userA",
		"body_part": "Neck",
		"condition": "Nerve Pain",
		"severity":  1,
		"age":       40,
		"history":   []interface{}{},
	}, "Accept-Language", "de-DE")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Home care recommended", decodeResponse(t, w)["advice"])
}
