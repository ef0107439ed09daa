package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/recurrence-api/consts"
	"github.com/bitmark-inc/recurrence-api/schema"
	"github.com/bitmark-inc/recurrence-api/score"
	"github.com/bitmark-inc/recurrence-api/utils"
)

const (
	collaboratorWatermark = "watermark"
	collaboratorHistory   = "history"

	timeframeWeekWarning = "week_warning"
	timeframeNew         = "new"
)

type predictRequest struct {
	UserID             string            `json:"user_id"`
	UserIDCamel        string            `json:"userId"`
	BodyPart           string            `json:"body_part"`
	BodyPartCamel      string            `json:"bodyPart"`
	Condition          string            `json:"condition"`
	Severity           interface{}       `json:"severity"`
	Age                interface{}       `json:"age"`
	Weight             *float64          `json:"weight"`
	ExistingConditions []string          `json:"existing_conditions"`
	History            []json.RawMessage `json:"history"`
	HasConsultedDoctor bool              `json:"has_consulted_doctor"`
}

type predictResponse struct {
	RiskScore          float64             `json:"risk_score"`
	Advice             string              `json:"advice"`
	Medication         string              `json:"medication"`
	Warnings           []string            `json:"warnings"`
	Decision           schema.DecisionKind `json:"decision"`
	ThresholdCrossed   bool                `json:"threshold_crossed"`
	ReportsThisWeek    int                 `json:"reports_this_week"`
	ReportsThisMonth   int                 `json:"reports_this_month"`
	ShowMonthly        bool                `json:"show_monthly"`
	FirstReportDaysAgo int                 `json:"first_report_days_ago"`
	ThresholdLimit     int                 `json:"threshold_limit"`
	WasReset           bool                `json:"was_reset"`
	IsCleared          bool                `json:"is_cleared"`
	OverrideThreshold  bool                `json:"override_threshold"`
	Timeframe          string              `json:"timeframe"`
	HistoryErrors      []schema.ParseError `json:"history_errors"`
	Degraded           []string            `json:"degraded"`
}

type assessment struct {
	userID    string
	bodyPart  string
	condition string
	severity  int
	age       int
}

func (r predictRequest) validate() (assessment, error) {
	var a assessment
	var err error

	if a.userID, err = requireString("user_id", r.UserID, r.UserIDCamel); err != nil {
		return a, err
	}
	if a.bodyPart, err = requireString("body_part", r.BodyPart, r.BodyPartCamel); err != nil {
		return a, err
	}
	if a.condition, err = requireString("condition", r.Condition); err != nil {
		return a, err
	}
	if a.severity, err = requireInt("severity", r.Severity, minSeverity, maxSeverity); err != nil {
		return a, err
	}
	if a.age, err = requireInt("age", r.Age, minAge, maxAge); err != nil {
		return a, err
	}
	if err = optionalWeight(r.Weight); err != nil {
		return a, err
	}
	return a, nil
}

// decodeHistory decodes every history item on its own so that a single
// malformed item is reported without rejecting the request. A malformed item
// keeps its position as an empty entry.
func decodeHistory(raw []json.RawMessage) ([]schema.HistoryEntry, map[int]schema.ParseError) {
	history := make([]schema.HistoryEntry, len(raw))
	malformed := make(map[int]schema.ParseError)
	for i, item := range raw {
		if err := json.Unmarshal(item, &history[i]); err != nil {
			history[i] = schema.HistoryEntry{}
			malformed[i] = schema.ParseError{Index: i, Field: "entry", Reason: "not a symptom object"}
		}
	}
	return history, malformed
}

func mergeParseErrors(malformed map[int]schema.ParseError, evaluated []schema.ParseError) []schema.ParseError {
	result := make([]schema.ParseError, 0, len(evaluated))
	for _, e := range evaluated {
		if m, ok := malformed[e.Index]; ok {
			result = append(result, m)
			continue
		}
		result = append(result, e)
	}
	return result
}

func (s *Server) predict(c *gin.Context) {
	var params predictRequest
	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	req, err := params.validate()
	if err != nil {
		abortWithValidation(c, err)
		return
	}

	ctx := c.Request.Context()
	now := s.now().UTC()
	degraded := make([]string, 0)

	var history []schema.HistoryEntry
	malformed := map[int]schema.ParseError{}
	if params.History != nil {
		history, malformed = decodeHistory(params.History)
	} else {
		events, err := s.mongoStore.SymptomEventsSince(ctx, req.userID, now.Add(-consts.MonthlyWindow))
		if err != nil {
			degraded = append(degraded, collaboratorHistory)
			s.reportDegraded(c, collaboratorHistory, err)
		}
		history = schema.HistoryFromEvents(events)
	}

	watermark, err := s.watermarks.GetWatermark(ctx, req.userID, req.bodyPart, req.condition)
	if err != nil {
		watermark = nil
		degraded = append(degraded, collaboratorWatermark)
		s.reportDegraded(c, collaboratorWatermark, err)
	}

	count, parseErrors := score.Evaluate(now, history, req.bodyPart, req.condition, watermark)
	parseErrors = mergeParseErrors(malformed, parseErrors)
	if len(parseErrors) > 0 {
		s.metrics.Counter("history_parse_error").Inc(int64(len(parseErrors)))
		log.WithField("user_id", req.userID).Debugf("skipped %d history entries", len(parseErrors))
	}

	decision := score.Decide(score.DecisionParams{
		Condition:          req.condition,
		Weekly:             count.Weekly,
		Monthly:            count.Monthly,
		Age:                req.age,
		Severity:           req.severity,
		WeightKg:           params.Weight,
		ExistingConditions: params.ExistingConditions,
		HasConsulted:       params.HasConsultedDoctor || count.WasReset,
	}, s.policy)
	s.metrics.Tagged(map[string]string{"kind": string(decision.Kind)}).Counter("decision").Inc(1)

	if decision.Kind == schema.DecisionEmergency {
		s.enqueueThresholdAlert(req, count, decision)
	}

	timeframe := timeframeNew
	if count.Weekly > 0 {
		timeframe = timeframeWeekWarning
	}

	c.JSON(http.StatusOK, predictResponse{
		RiskScore:          decision.RiskScore,
		Advice:             utils.Localize(c.GetHeader("Accept-Language"), decision.AdviceID, decision.AdviceData),
		Medication:         decision.Medication,
		Warnings:           decision.Warnings,
		Decision:           decision.Kind,
		ThresholdCrossed:   decision.ThresholdCrossed,
		ReportsThisWeek:    count.Weekly,
		ReportsThisMonth:   count.Monthly,
		ShowMonthly:        count.ShowMonthly,
		FirstReportDaysAgo: count.FirstReportDaysAgo,
		ThresholdLimit:     decision.ThresholdLimit,
		WasReset:           count.WasReset,
		IsCleared:          count.WasReset,
		OverrideThreshold:  params.HasConsultedDoctor,
		Timeframe:          timeframe,
		HistoryErrors:      parseErrors,
		Degraded:           degraded,
	})
}

func (s *Server) enqueueThresholdAlert(req assessment, count schema.RecurrenceCount, decision schema.Decision) {
	if s.background == nil {
		return
	}

	err := utils.TriggerThresholdAlert(s.background, schema.ThresholdAlert{
		UserID:         req.userID,
		BodyPart:       req.bodyPart,
		Condition:      req.condition,
		Weekly:         count.Weekly,
		ThresholdLimit: decision.ThresholdLimit,
		CreatedAt:      s.now(),
	})
	if err != nil {
		log.WithField("user_id", req.userID).WithError(err).Error("fail to enqueue threshold alert")
	}
}
