package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(allowed string) (*gin.Engine, *bool) {
	reached := new(bool)
	r := gin.New()
	r.Use(CORSMiddleware(allowed))
	handler := func(c *gin.Context) {
		*reached = true
		c.String(http.StatusOK, "ok")
	}
	r.GET("/documents/a.json", handler)
	r.OPTIONS("/documents/a.json", handler)
	return r, reached
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		allowed     string
		method      string
		origin      string
		reqHeaders  string
		status      int
		reached     bool
		allowOrigin string
		credentials string
		vary        string
		methods     string
		headers     string
	}{
		{
			name: "wildcard", allowed: "*", method: http.MethodGet, origin: "http://example.com",
			status: http.StatusOK, reached: true, allowOrigin: "*",
		},
		{
			name: "listed origin", allowed: "http://a.test,http://b.test", method: http.MethodGet, origin: "http://b.test",
			status: http.StatusOK, reached: true, allowOrigin: "http://b.test", credentials: "true", vary: "Origin",
		},
		{
			name: "unlisted origin", allowed: "http://a.test", method: http.MethodGet, origin: "http://evil.test",
			status: http.StatusOK, reached: true,
		},
		{
			name: "no origin header", allowed: "*", method: http.MethodGet,
			status: http.StatusOK, reached: true,
		},
		{
			name: "empty list", allowed: "", method: http.MethodGet, origin: "http://a.test",
			status: http.StatusOK, reached: true,
		},
		{
			name: "spaces around entries", allowed: " http://a.test , http://b.test ", method: http.MethodGet, origin: "http://a.test",
			status: http.StatusOK, reached: true, allowOrigin: "http://a.test", credentials: "true", vary: "Origin",
		},
		{
			name: "wildcard among entries", allowed: "http://a.test,*", method: http.MethodGet, origin: "http://z.test",
			status: http.StatusOK, reached: true, allowOrigin: "*",
		},
		{
			name: "preflight default headers", allowed: "http://a.test", method: http.MethodOptions, origin: "http://a.test",
			status: http.StatusNoContent, allowOrigin: "http://a.test", credentials: "true", vary: "Origin",
			methods: corsAllowMethods, headers: corsAllowHeaders,
		},
		{
			name: "preflight echoes requested headers", allowed: "*", method: http.MethodOptions, origin: "http://a.test",
			reqHeaders: "X-Trace-Id, Content-Type",
			status:     http.StatusNoContent, allowOrigin: "*", methods: corsAllowMethods, headers: "X-Trace-Id, Content-Type",
		},
		{
			name: "preflight from unlisted origin", allowed: "http://a.test", method: http.MethodOptions, origin: "http://evil.test",
			status: http.StatusOK, reached: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, reached := corsRouter(tt.allowed)

			req := httptest.NewRequest(tt.method, "/documents/a.json", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.reqHeaders != "" {
				req.Header.Set("Access-Control-Request-Headers", tt.reqHeaders)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.reached, *reached)
			assert.Equal(t, tt.allowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.credentials, w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, tt.vary, w.Header().Get("Vary"))
			assert.Equal(t, tt.methods, w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, tt.headers, w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestCORSMiddleware_PreflightMaxAge(t *testing.T) {
	r, _ := corsRouter("*")

	req := httptest.NewRequest(http.MethodOptions, "/documents/a.json", nil)
	req.Header.Set("Origin", "http://a.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}
