package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request, tagged with the
// correlation id RequestID attaches.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		entry := logger.WithFields(logrus.Fields{
			"service":   "horizon-planner",
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   latency,
			"client_ip": c.ClientIP(),
		})
		if requestID, exists := c.Get("request_id"); exists {
			entry = entry.WithField("request_id", requestID)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

// ErrorLogger surfaces any gin.Context errors accumulated during the
// request, independent of the summary line RequestLogger emits.
func ErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			logger.WithFields(logrus.Fields{
				"service": "horizon-planner",
				"method":  c.Request.Method,
				"path":    c.Request.URL.Path,
				"error":   err.Error(),
			}).Error("request error")
		}
	}
}
