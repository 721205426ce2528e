package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type generateRequest struct {
	Month string `json:"month"`
}

type deleteResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// withMonthLock runs fn holding the component's month lock. A held lock
// means a generation for the month is already in flight.
func (s *Server) withMonthLock(c *gin.Context, component, month string, fn func()) {
	release, ok, err := s.locker.Acquire(c.Request.Context(), component, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": gin.H{
			"code": "generation_in_progress", "message": "a generation for this month is already running",
		}})
		return
	}
	defer release()
	fn()
}

func bindGenerateRequest(c *gin.Context) (string, bool) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return "", false
	}
	return strings.TrimSpace(req.Month), true
}

func monthQuery(c *gin.Context) (string, bool) {
	month := strings.TrimSpace(c.Query("month"))
	if month == "" {
		AbortWithError(c, newValidationError("invalid_month", "month query parameter is required"))
		return "", false
	}
	return month, true
}
