package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin marks tokens issued to portal operators.
const RoleAdmin = "admin"

// Claims are the JWT claims issued at login. Customer tokens carry a
// CustomerID; admin tokens carry Role and the admin email as subject.
type Claims struct {
	CustomerID string `json:"customerId,omitempty"`
	SessionID  string `json:"sessionId"`
	Role       string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token belongs to an operator.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Principal identifies who the session was issued to.
func (c *Claims) Principal() string {
	if c.IsAdmin() {
		return AdminPrincipal(c.Subject)
	}
	return c.CustomerID
}

// AdminPrincipal is the session owner recorded for an operator.
func AdminPrincipal(email string) string {
	return RoleAdmin + ":" + email
}

// JWTManager issues and validates HS256 access tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager creates a JWTManager with the given signing secret and token lifetime.
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the lifetime of issued tokens.
func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}

// GenerateJWT signs a token for the customer bound to sessionID.
func (m *JWTManager) GenerateJWT(customerID, sessionID string) (string, error) {
	return m.sign(Claims{CustomerID: customerID, SessionID: sessionID}, customerID)
}

// GenerateAdminJWT signs an operator token bound to sessionID.
func (m *JWTManager) GenerateAdminJWT(email, sessionID string) (string, error) {
	return m.sign(Claims{SessionID: sessionID, Role: RoleAdmin}, email)
}

func (m *JWTManager) sign(claims Claims, subject string) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		ID:        claims.SessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateJWT parses and verifies a token, returning its claims.
func (m *JWTManager) ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid || claims.SessionID == "" || (claims.CustomerID == "" && !claims.IsAdmin()) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
