package controller

import (
	"net/http"

	"github.com/bassista/go_jsonupdate/internal/config"
	"github.com/gin-gonic/gin"
)

// ConfigurationResponse describes how the service writes documents.
type ConfigurationResponse struct {
	Indent       string `json:"indent"`
	Compact      bool   `json:"compact"`
	DetectIndent bool   `json:"detectIndent"`
	FileMode     string `json:"fileMode,omitempty"`
	CacheEnabled bool   `json:"cacheEnabled"`
}

// ConfigurationController handles configuration-related API endpoints.
type ConfigurationController struct {
	config *config.Config
}

// NewConfigurationController creates a new ConfigurationController.
func NewConfigurationController(cfg *config.Config) *ConfigurationController {
	return &ConfigurationController{
		config: cfg,
	}
}

// GetConfiguration returns the write settings applied to every document.
func (cc *ConfigurationController) GetConfiguration(c *gin.Context) {
	opts := cc.config.Data.WriteOptions()
	c.JSON(http.StatusOK, ConfigurationResponse{
		Indent:       opts.Indent,
		Compact:      opts.Compact,
		DetectIndent: opts.DetectIndent,
		FileMode:     cc.config.Data.FileMode,
		CacheEnabled: cc.config.Data.CacheEnabled,
	})
}
