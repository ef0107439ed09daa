package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/recurrence-api/schema"
)

type resetRequest struct {
	UserID        string `json:"user_id" form:"user_id"`
	UserIDCamel   string `json:"userId" form:"userId"`
	BodyPart      string `json:"body_part" form:"body_part"`
	BodyPartCamel string `json:"bodyPart" form:"bodyPart"`
	Condition     string `json:"condition" form:"condition"`
}

func (r resetRequest) key() (userID, bodyPart, condition string, err error) {
	if userID, err = requireString("user_id", r.UserID, r.UserIDCamel); err != nil {
		return
	}
	if bodyPart, err = requireString("body_part", r.BodyPart, r.BodyPartCamel); err != nil {
		return
	}
	condition, err = requireString("condition", r.Condition)
	return
}

func abortWithMissingField(c *gin.Context, err error) {
	if ve, ok := err.(*schema.ValidationError); ok {
		abortWithEncoding(c, http.StatusBadRequest, fieldError(errorMissingFields, ve.Field, ve.Reason), err)
		return
	}
	abortWithEncoding(c, http.StatusBadRequest, errorMissingFields, err)
}

// resetThreshold records a doctor consultation. Events reported until now no
// longer count towards the threshold of the symptom.
func (s *Server) resetThreshold(c *gin.Context) {
	var params resetRequest
	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	userID, bodyPart, condition, err := params.key()
	if err != nil {
		abortWithMissingField(c, err)
		return
	}

	w := schema.NewResetWatermark(userID, bodyPart, condition, s.now(), s.resetTTL)
	if err := s.watermarks.SetWatermark(c.Request.Context(), userID, bodyPart, condition, w.ResetAt, w.ExpiresAt); err != nil {
		log.WithField("user_id", userID).WithError(err).Error("fail to set watermark")
		abortWithEncoding(c, http.StatusServiceUnavailable, errorWatermarkUnavailable, err)
		return
	}

	log.WithField("user_id", userID).Infof("threshold of %s/%s reset", w.BodyPart, w.Condition)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"reset_at":   w.ResetAt.Format(time.RFC3339),
		"expires_at": formatOptionalTime(w.ExpiresAt),
	})
}

func (s *Server) getThresholdReset(c *gin.Context) {
	var params resetRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	userID, bodyPart, condition, err := params.key()
	if err != nil {
		abortWithMissingField(c, err)
		return
	}

	w, err := s.watermarks.GetWatermark(c.Request.Context(), userID, bodyPart, condition)
	if err != nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorWatermarkUnavailable, err)
		return
	}

	state := w.State(s.now())
	result := gin.H{
		"state":      state,
		"is_cleared": state == schema.WatermarkActive,
		"reset_at":   nil,
		"expires_at": nil,
	}
	if w != nil {
		result["reset_at"] = w.ResetAt.Format(time.RFC3339)
		result["expires_at"] = formatOptionalTime(w.ExpiresAt)
	}

	c.JSON(http.StatusOK, result)
}

func formatOptionalTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
