package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/customer_portal/internal/cache"
	"github.com/GTDGit/customer_portal/internal/config"
	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/repository"
	"github.com/GTDGit/customer_portal/internal/utils"
)

// TokenType is reported alongside every access token.
const TokenType = "Bearer"

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string           `json:"accessToken"`
	TokenType   string           `json:"tokenType"`
	ExpiresIn   int64            `json:"expiresIn"`
	Customer    *models.Customer `json:"customer,omitempty"`
	Role        string           `json:"role,omitempty"`
}

// AuthService logs customers in and validates their bearer tokens against
// the session store.
type AuthService struct {
	customers *repository.CustomerRepository
	sessions  *cache.SessionCache
	jwt       *utils.JWTManager
	admin     config.AdminConfig
}

// NewAuthService constructs a new AuthService.
func NewAuthService(
	customers *repository.CustomerRepository,
	sessions *cache.SessionCache,
	jwt *utils.JWTManager,
	admin config.AdminConfig,
) *AuthService {
	return &AuthService{
		customers: customers,
		sessions:  sessions,
		jwt:       jwt,
		admin:     admin,
	}
}

// Login finds the customer by email within companyID and opens a session.
// Inactive customers are refused.
func (s *AuthService) Login(ctx context.Context, email, companyID string) (*LoginResult, error) {
	customer, err := s.customers.GetByEmail(ctx, email, companyID)
	if err != nil {
		return nil, err
	}
	if customer.Status == models.CustomerStatusInactive {
		log.Warn().Str("customer_id", customer.ID).Msg("Login refused for inactive customer")
		return nil, fmt.Errorf("customer %s is inactive: %w", customer.ID, utils.ErrForbidden)
	}

	sessionID := uuid.New().String()
	token, err := s.jwt.GenerateJWT(customer.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	if err := s.sessions.Save(ctx, sessionID, customer.ID, s.jwt.TTL()); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrUpstream, err)
	}

	log.Info().Str("customer_id", customer.ID).Msg("Customer logged in")
	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
		Customer:    customer,
	}, nil
}

// AdminLogin opens an operator session. Operators may read any customer.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	if s.admin.Email == "" || s.admin.PasswordHash == "" {
		return nil, fmt.Errorf("admin login is disabled: %w", utils.ErrUnauthorized)
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.admin.Email) {
		return nil, fmt.Errorf("invalid credentials: %w", utils.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Admin password verification failed")
		return nil, fmt.Errorf("invalid credentials: %w", utils.ErrUnauthorized)
	}

	sessionID := uuid.New().String()
	token, err := s.jwt.GenerateAdminJWT(s.admin.Email, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	if err := s.sessions.Save(ctx, sessionID, utils.AdminPrincipal(s.admin.Email), s.jwt.TTL()); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrUpstream, err)
	}

	log.Info().Str("email", s.admin.Email).Msg("Admin logged in")
	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
		Role:        utils.RoleAdmin,
	}, nil
}

// Authenticate validates a bearer token and checks that its session is live.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", utils.ErrUnauthorized)
	}
	claims, err := s.jwt.ValidateJWT(token)
	if err != nil {
		return nil, err
	}

	owner, err := s.sessions.Owner(ctx, claims.SessionID)
	if errors.Is(err, cache.ErrMiss) {
		return nil, fmt.Errorf("session expired or revoked: %w", utils.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrUpstream, err)
	}
	if owner != claims.Principal() {
		return nil, fmt.Errorf("session does not belong to token subject: %w", utils.ErrUnauthorized)
	}
	return claims, nil
}

// Logout revokes the session behind claims.
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if err := s.sessions.Revoke(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("%w: %w", utils.ErrUpstream, err)
	}
	log.Info().Str("principal", claims.Principal()).Msg("Session revoked")
	return nil
}

// Authorize returns ErrForbidden unless claims may act for customerID.
func Authorize(claims *utils.Claims, customerID string) error {
	if claims == nil {
		return utils.ErrUnauthorized
	}
	if claims.IsAdmin() || claims.CustomerID == customerID {
		return nil
	}
	return fmt.Errorf("customer %s: %w", customerID, utils.ErrForbidden)
}
