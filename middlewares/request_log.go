package middlewares

import (
	"log/slog"
	"time"

	"github.com/PabloUrbano2000/little-lemon-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// RequestLogger tags each request with an id and logs it once it is done.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(utils.RequestIDKey, id)
		c.Header(requestIDHeader, id)

		reqLog := log.With("request_id", id)
		c.Set(loggerKey, reqLog)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if caller := CallerFrom(c); caller.Authenticated {
			attrs = append(attrs, "user_id", caller.ID)
		}
		switch {
		case status >= 500:
			reqLog.Error("request", attrs...)
		case status >= 400:
			reqLog.Warn("request", attrs...)
		default:
			reqLog.Info("request", attrs...)
		}
	}
}

// LoggerFrom returns the request-scoped logger, or slog.Default.
func LoggerFrom(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
