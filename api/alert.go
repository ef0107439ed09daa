package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listThresholdAlerts returns the emergency alerts recorded for a user, newest
// first, for clinician follow-up.
func (s *Server) listThresholdAlerts(c *gin.Context) {
	userID, err := requireString("user_id", c.Query("user_id"), c.Query("userId"))
	if err != nil {
		abortWithValidation(c, err)
		return
	}

	limit, err := queryLimit(c)
	if err != nil {
		abortWithValidation(c, err)
		return
	}

	alerts, err := s.mongoStore.ListThresholdAlerts(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorAlertUnavailable, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
