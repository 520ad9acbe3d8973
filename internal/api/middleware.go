package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"distlab/internal"
	"distlab/internal/errors"
)

// RequestIDHeader carries the per-request identifier
const RequestIDHeader = "X-Request-ID"

// RequestID reuses a valid incoming request id or generates a new one and
// echoes it on the response
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog logs every request at DEBUG and server errors at ERROR
func AccessLog(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= 500 {
			logger.Error("%s %s -> %d (%s) request=%s", c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.GetString("requestID"))
			return
		}
		logger.Debug("%s %s -> %d (%s) request=%s", c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.GetString("requestID"))
	}
}

// respondError writes the {"error", "code"} body with the status mapped from the code
func respondError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	c.AbortWithStatusJSON(errors.HTTPStatus(appErr.Code), gin.H{
		"error": appErr.Error(),
		"code":  appErr.Code,
	})
}
