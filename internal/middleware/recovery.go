package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Recovery turns panics into a 500 page, logs the stack and reports the
// panic to Sentry. Errors attached to 5xx responses are reported as well.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(c.Request)
		if id := c.GetString(requestIDKey); id != "" {
			hub.Scope().SetTag("request_id", id)
		}

		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("error", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("stack", string(debug.Stack())))
				hub.RecoverWithContext(c.Request.Context(), r)
				response.InternalError(c, fmt.Errorf("panic: %v", r))
				c.Abort()
			}
		}()

		c.Next()

		if c.Writer.Status() >= 500 {
			for _, e := range c.Errors {
				hub.CaptureException(e.Err)
			}
		}
	}
}
