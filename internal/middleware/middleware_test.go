package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/customer_portal/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestInvalidAuthRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewInvalidAuthRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "attempt %d", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))

	now = now.Add(2 * time.Minute)
	rl.evictExpired()
	assert.Empty(t, rl.attempts)
}

func TestInvalidAuthRateLimiter_Blocked(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewInvalidAuthRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.False(t, rl.Blocked("10.0.0.1"))
	rl.Allow("10.0.0.1")
	assert.False(t, rl.Blocked("10.0.0.1"))
	rl.Allow("10.0.0.1")
	assert.True(t, rl.Blocked("10.0.0.1"))
	assert.True(t, rl.Blocked("10.0.0.1"), "checking must not record an attempt")
	assert.False(t, rl.Blocked("10.0.0.2"))

	now = now.Add(61 * time.Second)
	assert.False(t, rl.Blocked("10.0.0.1"))
}

func TestRequireAdmin(t *testing.T) {
	run := func(claims *utils.Claims) int {
		r := gin.New()
		r.GET("/ops", func(c *gin.Context) {
			if claims != nil {
				c.Set(claimsKey, claims)
			}
			c.Next()
		}, RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ops", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, run(nil))
	assert.Equal(t, http.StatusForbidden, run(&utils.Claims{CustomerID: "C1"}))
	assert.Equal(t, http.StatusOK, run(&utils.Claims{Role: utils.RoleAdmin}))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000", "https://portal.example.com"}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://portal.example.com:443")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://portal.example.com:443", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("abc"))
}
