package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type distributeRequest struct {
	Month    string  `json:"month"`
	NovelIDs []int64 `json:"novel_ids"`
}

// @Summary      Distribute Editor Income
// @Description  Split each novel's monthly champion income into its editor ledger
// @Tags         settlement
// @Accept       json
// @Produce      json
// @Param        request body distributeRequest true "Settlement month and novels"
// @Success      200  {object}  domain.BatchDistribution
// @Router       /v1/settlement/editor-income/generate [post]
func (s *Server) DistributeEditorIncome(c *gin.Context) {
	var req distributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.NovelIDs) == 0 {
		AbortWithError(c, newValidationError("invalid_novel_ids", "novel_ids must not be empty"))
		return
	}

	batch, err := s.editorIncomeSvc.Distribute(c.Request.Context(), req.NovelIDs, strings.TrimSpace(req.Month))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, batch)
}
