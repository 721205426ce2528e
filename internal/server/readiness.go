package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var generatedRows = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "settlement_generated_rows_total",
	Help: "Rows generated per settlement component.",
}, []string{"component"})

var skippedRows = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "settlement_skipped_rows_total",
	Help: "Rows skipped per settlement component.",
}, []string{"component"})

func recordGeneration(component string, generated, skipped int) {
	generatedRows.WithLabelValues(component).Add(float64(generated))
	skippedRows.WithLabelValues(component).Add(float64(skipped))
}

func metricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Readiness(c *gin.Context) {
	if err := s.sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
