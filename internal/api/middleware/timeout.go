package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bassista/go_jsonupdate/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestTimeout bounds each request with a context deadline. Handlers stop
// at the next checkpoint that honors ctx; the middleware answers 504 only if
// the handler gave up without writing a response.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	log := logger.WithComponent("timeout")

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			log.Warnf("%s %s exceeded %s", c.Request.Method, c.Request.URL.Path, d)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": "request timeout"})
		}
	}
}
