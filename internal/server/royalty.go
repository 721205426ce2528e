package server

import (
	"github.com/gin-gonic/gin"
)

// @Summary      Generate Author Royalties
// @Description  Compute each author's share of the month's reader spending
// @Tags         settlement
// @Accept       json
// @Produce      json
// @Param        request body generateRequest true "Settlement month (YYYY-MM)"
// @Success      200  {object}  settlement.BatchResult
// @Router       /v1/settlement/royalties/generate [post]
func (s *Server) GenerateRoyalties(c *gin.Context) {
	month, ok := bindGenerateRequest(c)
	if !ok {
		return
	}

	s.withMonthLock(c, "royalty", month, func() {
		result, err := s.royaltySvc.Generate(c.Request.Context(), month)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		recordGeneration("royalty", result.Generated, result.Skipped)
		respondData(c, result)
	})
}

// @Summary      Delete Author Royalties
// @Tags         settlement
// @Produce      json
// @Param        month  query  string  true  "Settlement month (YYYY-MM)"
// @Success      200  {object}  deleteResponse
// @Router       /v1/settlement/royalties [delete]
func (s *Server) DeleteRoyalties(c *gin.Context) {
	month, ok := monthQuery(c)
	if !ok {
		return
	}

	deleted, err := s.royaltySvc.Delete(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, deleteResponse{DeletedCount: deleted})
}
