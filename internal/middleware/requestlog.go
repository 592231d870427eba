package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ardelis/equipsense-backend/internal/platform/logger"
)

type RequestLogMiddleware struct {
	log *logger.Logger
}

func NewRequestLogMiddleware(baseLog *logger.Logger) *RequestLogMiddleware {
	return &RequestLogMiddleware{log: baseLog.With("middleware", "RequestLog")}
}

func (m *RequestLogMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.log.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
