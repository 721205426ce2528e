package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kongfuworld/settlement/internal/settlement"
)

type apiError struct {
	status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string { return e.Code }

func newValidationError(code, message string) *apiError {
	return &apiError{status: http.StatusBadRequest, Code: code, Message: message}
}

func invalidRequestError() *apiError {
	return newValidationError("invalid_request", "request body could not be parsed")
}

// AbortWithError maps domain errors onto HTTP statuses. Guards surface as
// conflicts; everything unexpected is a 500 with the code hidden.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.status, gin.H{"error": apiErr})
		return
	}

	switch {
	case errors.Is(err, settlement.ErrInvalidMonth):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{
			"code": settlement.ErrInvalidMonth.Error(), "message": "month must be YYYY-MM",
		}})
	case errors.Is(err, settlement.ErrNoSourceRows):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{
			"code": settlement.ErrNoSourceRows.Error(), "message": "upstream rows for the month are missing; generate them first",
		}})
	case errors.Is(err, settlement.ErrAlreadyGenerated):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": gin.H{
			"code": settlement.ErrAlreadyGenerated.Error(), "message": "month already generated; delete before regenerating",
		}})
	case errors.Is(err, settlement.ErrMonthSettled):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": gin.H{
			"code": settlement.ErrMonthSettled.Error(), "message": "month has settled rows and cannot be deleted",
		}})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code": "internal_error", "message": "internal error",
		}})
	}
}
