// Package api exposes scans over HTTP.
package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amosWeiskopf/keywordscan/internal/config"
	"github.com/amosWeiskopf/keywordscan/pkg/reporter"
	"github.com/amosWeiskopf/keywordscan/pkg/scanner"
)

// NewRouter creates a configured Gin engine with all routes and middleware
func NewRouter(sc *scanner.Scanner, rep *reporter.Reporter, cfg config.ServerConfig, logger *slog.Logger, startTime time.Time) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	v1 := r.Group("/api/v1")
	v1.GET("/health", Health(startTime))
	v1.POST("/scan", Scan(sc, rep))

	return r
}

// requestLogger logs one line per request through slog
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client", c.ClientIP())
	}
}
