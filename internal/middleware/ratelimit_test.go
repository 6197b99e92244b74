package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitBlocksPastQuota(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit("2-M"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		r.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, hit().Code)
	require.Equal(t, http.StatusOK, hit().Code)
	assert.Equal(t, http.StatusTooManyRequests, hit().Code)
}
