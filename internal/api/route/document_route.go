package route

import (
	"time"

	"github.com/bassista/go_jsonupdate/internal/api/controller"
	"github.com/bassista/go_jsonupdate/internal/api/middleware"
	"github.com/bassista/go_jsonupdate/internal/app"
	"github.com/gin-gonic/gin"
)

// NewDocumentRouter sets up the document routes. Names may contain slashes,
// so every verb shares one catch-all parameter.
func NewDocumentRouter(timeout time.Duration, group *gin.RouterGroup, appCtx *app.App) {
	dc := controller.NewDocumentController(appCtx)
	documents := group.Group("documents", middleware.RequestTimeout(timeout))

	documents.GET("/*name", dc.Get)
	documents.PUT("/*name", dc.Put)
	documents.PATCH("/*name", dc.Patch)
	documents.POST("/*name", dc.Post)
}
