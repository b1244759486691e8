package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/daway0/pors/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.PanelHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/session/open", handler.Open)
	r.GET("/session", handler.Snapshot)
	r.GET("/session/calendar", handler.FetchMonth)
	r.POST("/session/day", handler.SelectDay)
	r.POST("/session/items/:id", handler.AddItem)
	r.DELETE("/session/items/:id", handler.RemoveItem)
	r.POST("/session/note", handler.SetNote)
	r.POST("/session/delivery/building", handler.SelectBuilding)
	r.POST("/session/delivery/floor", handler.SelectFloor)
	r.POST("/session/items/:id/like", handler.Like)
	r.POST("/session/items/:id/dislike", handler.Dislike)
	r.POST("/session/impersonate", handler.Impersonate)
	r.DELETE("/session/impersonate", handler.StopImpersonation)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
