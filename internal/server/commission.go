package server

import (
	"github.com/gin-gonic/gin"
)

// @Summary      Generate Commissions
// @Description  Walk referral chains for both tracks and emit commission transactions
// @Tags         settlement
// @Accept       json
// @Produce      json
// @Param        request body generateRequest true "Settlement month (YYYY-MM)"
// @Success      200  {object}  settlement.BatchResult
// @Router       /v1/settlement/commissions/generate [post]
func (s *Server) GenerateCommissions(c *gin.Context) {
	month, ok := bindGenerateRequest(c)
	if !ok {
		return
	}

	s.withMonthLock(c, "commission", month, func() {
		result, err := s.commissionSvc.Generate(c.Request.Context(), month)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		recordGeneration("commission", result.Generated, result.Skipped)
		respondData(c, result)
	})
}

// @Summary      Delete Commissions
// @Tags         settlement
// @Produce      json
// @Param        month  query  string  true  "Settlement month (YYYY-MM)"
// @Success      200  {object}  deleteResponse
// @Router       /v1/settlement/commissions [delete]
func (s *Server) DeleteCommissions(c *gin.Context) {
	month, ok := monthQuery(c)
	if !ok {
		return
	}

	deleted, err := s.commissionSvc.Delete(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, deleteResponse{DeletedCount: deleted})
}
