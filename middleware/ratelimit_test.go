package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/blog-backend/middleware"
)

func newLimitedRouter(rl *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", rl.Limit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func hit(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":51234"
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksAfterBudget(t *testing.T) {
	rl := middleware.NewRateLimiter(5, time.Minute)
	t.Cleanup(rl.Stop)
	router := newLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := hit(router, "10.0.0.1")
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := hit(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := middleware.NewRateLimiter(1, time.Minute)
	t.Cleanup(rl.Stop)
	router := newLimitedRouter(rl)

	require.Equal(t, http.StatusOK, hit(router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(router, "10.0.0.1").Code)

	// A different caller still has its full budget.
	assert.Equal(t, http.StatusOK, hit(router, "10.0.0.2").Code)
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 50*time.Millisecond)
	t.Cleanup(rl.Stop)
	router := newLimitedRouter(rl)

	require.Equal(t, http.StatusOK, hit(router, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(router, "10.0.0.1").Code)

	time.Sleep(70 * time.Millisecond)

	assert.Equal(t, http.StatusOK, hit(router, "10.0.0.1").Code)
}
