package middleware

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	honeybadger "github.com/honeybadger-io/honeybadger-go"
	"github.com/sirupsen/logrus"
)

// HoneybadgerMiddleware reports panics and failed document requests to Honeybadger.
// It is a no-op unless HONEYBADGER_API_KEY is set. Panics are re-raised so
// gin.Recovery still writes the response. Missing documents are not reported.
func HoneybadgerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	apiKey := os.Getenv("HONEYBADGER_API_KEY")
	if apiKey == "" {
		log.Info("Honeybadger is not active. Set HONEYBADGER_API_KEY to enable error reporting.")
		return func(c *gin.Context) { c.Next() }
	}

	honeybadger.Configure(honeybadger.Configuration{
		APIKey: apiKey,
		Env:    os.Getenv("GO_ENV"),
	})
	log.Info("Honeybadger error reporting is enabled.")

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				honeybadger.Notify(fmt.Sprintf("panic: %s %s", c.Request.Method, c.Request.URL.Path),
					c.Request, honeybadger.Context{"stack": string(debug.Stack())}, honeybadger.Tags{"panic", "http"})
				log.Errorf("panic in %s %s reported: %v", c.Request.Method, c.Request.URL.Path, rec)
				panic(rec)
			}
		}()

		c.Next()

		status := c.Writer.Status()
		if !reportable(status) {
			return
		}
		tag := "4XX"
		if status >= http.StatusInternalServerError {
			tag = "5XX"
		}
		honeybadger.Notify(fmt.Sprintf("HTTP %d: %s %s", status, c.Request.Method, c.Request.URL.Path),
			c.Request, honeybadger.Context{"document": c.Param("name")}, honeybadger.Tags{tag, "http"})
		log.Warnf("Honeybadger reported HTTP %d for %s %s", status, c.Request.Method, c.Request.URL.Path)
	}
}

// reportable reports whether a response status is worth a notification.
func reportable(status int) bool {
	return status >= http.StatusBadRequest && status != http.StatusNotFound
}
