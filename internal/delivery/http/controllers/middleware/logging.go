package middleware

import (
	"CourseMarket/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware writes one line per request. Errors attached with c.Error
// are logged with the request they belong to.
func LoggingMiddleware(log logger.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if id, ok := c.Get(ClientIDCtx); ok {
			args = append(args, "user_id", id)
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("http request", args...)
		case status >= http.StatusBadRequest:
			log.Debug("http request", args...)
		default:
			log.Info("http request", args...)
		}

		for _, ginErr := range c.Errors {
			log.ErrorErr("http request error", ginErr.Err, args...)
		}
	}
}
