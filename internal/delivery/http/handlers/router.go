package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type Handlers struct {
	Dashboard *DashboardHandler
	Settings  *SettingsHandler
	Layout    *LayoutHandler
	Metrics   http.Handler
}

func NewRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := router.Group("/api")
	api.GET("/dashboard", h.Dashboard.GetDashboard)
	api.GET("/modules", h.Dashboard.ListModules)

	api.PUT("/settings/modules/:key", h.Settings.UpdateModule)
	api.DELETE("/settings/modules/:key", h.Settings.ResetModule)

	api.GET("/layout", h.Layout.GetLayout)
	api.PUT("/layout", h.Layout.SaveLayout)
	api.DELETE("/layout", h.Layout.ResetLayout)

	return router
}

// RequestLogger tags every request with an id and logs it once served.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		logger.Debug("request served",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
