package server

import (
	"github.com/gin-gonic/gin"
)

// @Summary      Generate Reader Spending
// @Description  Allocate the month's consumption events into reader spending rows
// @Tags         settlement
// @Accept       json
// @Produce      json
// @Param        request body generateRequest true "Settlement month (YYYY-MM)"
// @Success      200  {object}  settlement.BatchResult
// @Router       /v1/settlement/spending/generate [post]
func (s *Server) GenerateSpending(c *gin.Context) {
	month, ok := bindGenerateRequest(c)
	if !ok {
		return
	}

	s.withMonthLock(c, "spending", month, func() {
		result, err := s.revenueSvc.Generate(c.Request.Context(), month)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		recordGeneration("spending", result.Generated, result.Skipped)
		respondData(c, result)
	})
}

// @Summary      Delete Reader Spending
// @Description  Delete the month's reader spending rows unless any are settled
// @Tags         settlement
// @Produce      json
// @Param        month  query  string  true  "Settlement month (YYYY-MM)"
// @Success      200  {object}  deleteResponse
// @Router       /v1/settlement/spending [delete]
func (s *Server) DeleteSpending(c *gin.Context) {
	month, ok := monthQuery(c)
	if !ok {
		return
	}

	deleted, err := s.revenueSvc.Delete(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, deleteResponse{DeletedCount: deleted})
}
