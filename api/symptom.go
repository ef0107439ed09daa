package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/recurrence-api/schema"
	"github.com/bitmark-inc/recurrence-api/score"
	"github.com/bitmark-inc/recurrence-api/store"
)

type symptomReportRequest struct {
	UserID        string      `json:"user_id"`
	UserIDCamel   string      `json:"userId"`
	BodyPart      string      `json:"body_part"`
	BodyPartCamel string      `json:"bodyPart"`
	Condition     string      `json:"condition"`
	Severity      *float64    `json:"severity"`
	Timestamp     interface{} `json:"timestamp"`
}

func (s *Server) reportSymptom(c *gin.Context) {
	var params symptomReportRequest
	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	event, err := params.event(s)
	if err != nil {
		abortWithValidation(c, err)
		return
	}

	if err := s.mongoStore.SaveSymptomEvent(c.Request.Context(), &event); err != nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorSymptomUnavailable, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        event.ID,
		"timestamp": event.Timestamp,
	})
}

func (r symptomReportRequest) event(s *Server) (schema.SymptomEvent, error) {
	var e schema.SymptomEvent
	var err error

	if e.UserID, err = requireString("user_id", r.UserID, r.UserIDCamel); err != nil {
		return e, err
	}
	if e.BodyPart, err = requireString("body_part", r.BodyPart, r.BodyPartCamel); err != nil {
		return e, err
	}
	if e.Condition, err = requireString("condition", r.Condition); err != nil {
		return e, err
	}

	if r.Severity != nil {
		if *r.Severity < minSeverity || *r.Severity > maxSeverity {
			return e, &schema.ValidationError{Field: "severity", Reason: "must be between 0 and 10"}
		}
		e.Severity = r.Severity
	}

	e.Timestamp = s.now().UTC()
	if r.Timestamp != nil {
		ts := score.NormalizeTimestamp(r.Timestamp)
		if !ts.Parsed {
			return e, &schema.ValidationError{Field: "timestamp", Reason: ts.Reason}
		}
		e.Timestamp = ts.Instant
	}
	return e, nil
}

func (s *Server) listSymptoms(c *gin.Context) {
	userID, err := requireString("user_id", c.Query("user_id"), c.Query("userId"))
	if err != nil {
		abortWithValidation(c, err)
		return
	}

	before := s.now().UTC()
	if raw := c.Query("before"); raw != "" {
		ts := score.NormalizeTimestamp(raw)
		if !ts.Parsed {
			abortWithValidation(c, &schema.ValidationError{Field: "before", Reason: ts.Reason})
			return
		}
		before = ts.Instant
	}

	limit, err := queryLimit(c)
	if err != nil {
		abortWithValidation(c, err)
		return
	}

	events, err := s.mongoStore.ListSymptomEvents(c.Request.Context(), userID, before, limit)
	if err != nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorSymptomUnavailable, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"symptoms": events})
}

// queryLimit reads the optional page size of a list endpoint.
func queryLimit(c *gin.Context) (int64, error) {
	raw := c.Query("limit")
	if raw == "" {
		return store.DefaultSymptomListLimit, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 || n > store.MaxSymptomListLimit {
		return 0, &schema.ValidationError{Field: "limit", Reason: "must be between 1 and 500"}
	}
	return n, nil
}
