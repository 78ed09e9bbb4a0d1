package middleware

import (
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestHoneybadgerMiddleware_DisabledPassesThrough(t *testing.T) {
	t.Setenv("HONEYBADGER_API_KEY", "")
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	r.Use(HoneybadgerMiddleware(log))
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusTeapot, "x") })

	w := serve(r, http.MethodGet, "/test")
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestReportable(t *testing.T) {
	assert.False(t, reportable(http.StatusOK))
	assert.False(t, reportable(http.StatusNotFound))
	assert.True(t, reportable(http.StatusBadRequest))
	assert.True(t, reportable(http.StatusUnprocessableEntity))
	assert.True(t, reportable(http.StatusInternalServerError))
}
