package handler

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/GTDGit/customer_portal/internal/middleware"
	"github.com/GTDGit/customer_portal/internal/service"
	"github.com/GTDGit/customer_portal/internal/utils"
)

type loginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	CompanyID string `json:"companyId" validate:"required"`
}

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	authService *service.AuthService
	validate    *validatorv10.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, validate *validatorv10.Validate) *AuthHandler {
	return &AuthHandler{authService: authService, validate: validate}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindAndValidate(c, &req, h.validate) {
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.CompanyID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Login successful", res)
}

// AdminLogin handles POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if !BindAndValidate(c, &req, h.validate) {
		return
	}

	res, err := h.authService.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Login successful", res)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Logged out", nil)
}
