package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestLoginRateLimiterThrottlesPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	limiter := NewLoginRateLimiter(rate.Every(time.Minute), 2)
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(ip string) int {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))

	// A different client keeps its own budget.
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}
