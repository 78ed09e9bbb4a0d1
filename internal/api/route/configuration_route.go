package route

import (
	"time"

	"github.com/bassista/go_jsonupdate/internal/api/controller"
	"github.com/bassista/go_jsonupdate/internal/api/middleware"
	"github.com/bassista/go_jsonupdate/internal/config"
	"github.com/gin-gonic/gin"
)

// NewConfigurationRouter exposes the write settings applied to documents.
func NewConfigurationRouter(timeout time.Duration, group *gin.RouterGroup, cfg *config.Config) {
	cc := controller.NewConfigurationController(cfg)
	group.GET("configuration", middleware.RequestTimeout(timeout), cc.GetConfiguration)
}
