package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/customer_portal/internal/service"
	"github.com/GTDGit/customer_portal/internal/utils"
)

const claimsKey = "claims"

// JWTMiddleware authenticates bearer tokens against live sessions.
type JWTMiddleware struct {
	authService *service.AuthService
	rateLimiter *InvalidAuthRateLimiter
}

// NewJWTMiddleware constructs a new JWTMiddleware.
func NewJWTMiddleware(authService *service.AuthService, rateLimiter *InvalidAuthRateLimiter) *JWTMiddleware {
	return &JWTMiddleware{authService: authService, rateLimiter: rateLimiter}
}

// Handle enforces authentication. Browsers cannot set headers on WebSocket
// or EventSource requests, so a `token` query parameter is accepted too.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			m.handleAuthError(c, "Missing authorization header")
			return
		}

		claims, err := m.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, utils.ErrUnauthorized) {
				m.handleAuthError(c, "Invalid or expired token")
				return
			}
			utils.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Set("customer_id", claims.CustomerID)
		c.Next()
	}
}

// RequireCustomer rejects requests whose token may not act for the customer
// named by the route parameter.
func RequireCustomer(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.Authorize(GetClaims(c), c.Param(param)); err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginGuard throttles credential endpoints. A 401, 403 or 404 answer counts
// as a failed attempt; an IP over the limit gets 429 before the handler runs.
func (m *JWTMiddleware) LoginGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.rateLimiter == nil {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if m.rateLimiter.Blocked(ip) {
			utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many failed login attempts")
			c.Abort()
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			m.rateLimiter.Allow(ip)
		}
	}
}

// RequireAdmin rejects tokens that were not issued by the operator login.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := GetClaims(c); claims == nil || !claims.IsAdmin() {
			utils.HandleError(c, fmt.Errorf("operator access required: %w", utils.ErrForbidden))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *JWTMiddleware) handleAuthError(c *gin.Context, message string) {
	if m.rateLimiter != nil && !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}
	utils.Error(c, http.StatusUnauthorized, utils.ErrUnauthorized.Error(), message)
	c.Abort()
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetClaims returns the authenticated claims from context.
func GetClaims(c *gin.Context) *utils.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}
