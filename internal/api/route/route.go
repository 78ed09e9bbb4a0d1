package route

import (
	"net/http"

	"github.com/bassista/go_jsonupdate/internal/api/middleware"
	"github.com/bassista/go_jsonupdate/internal/app"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes builds the HTTP engine for the document service.
func SetupRoutes(appCtx *app.App, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.HoneybadgerMiddleware(log))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(appCtx.Config.Server.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	publicRouter := r.Group("")
	timeout := appCtx.Config.Server.RequestTimeout

	NewConfigurationRouter(timeout, publicRouter, appCtx.Config)
	NewDocumentRouter(timeout, publicRouter, appCtx)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}
