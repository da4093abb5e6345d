package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"stocksim/internal/delivery/http/dto"
	"stocksim/internal/middleware"
	"stocksim/internal/usecase"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	accountService *usecase.AccountService
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accountService *usecase.AccountService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		jwtSecret:      jwtSecret,
	}
}

// Register handles account registration
// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Username == "" || req.Password == "" {
		return BadRequestResponse(c, "Username and password are required")
	}
	if len(req.Password) < 6 {
		return BadRequestResponse(c, "Password must be at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accountID, err := h.accountService.Register(ctx, req.Username, req.Password)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return CreatedResponse(c, map[string]string{
		"account_id": accountID.String(),
		"username":   req.Username,
	})
}

// Login handles account login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Username == "" || req.Password == "" {
		return BadRequestResponse(c, "Username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accountID, err := h.accountService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	token, err := middleware.GenerateJWT(accountID, h.jwtSecret)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to generate token")
	}

	cookie := &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
	}
	c.SetCookie(cookie)

	return SuccessResponse(c, dto.LoginResponse{
		Token:     token,
		AccountID: accountID.String(),
		Username:  req.Username,
	})
}

// Logout clears the auth cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie := &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
	c.SetCookie(cookie)

	return SuccessResponse(c, map[string]string{"message": "Logged out"})
}
