package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Healthz reports liveness plus a database ping.
func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Metrics exposes the prometheus registry.
func (s *Server) Metrics(c *gin.Context) {
	handler := promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})
	handler.ServeHTTP(c.Writer, c.Request)
}
