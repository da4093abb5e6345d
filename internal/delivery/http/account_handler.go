package http

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"stocksim/internal/delivery/http/dto"
	"stocksim/internal/middleware"
	"stocksim/internal/usecase"
)

// AccountHandler handles portfolio, history, deposit, and password
// change requests for the authenticated account
type AccountHandler struct {
	accountService *usecase.AccountService
	tradingService *usecase.TradingService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *usecase.AccountService, tradingService *usecase.TradingService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		tradingService: tradingService,
	}
}

// GetPortfolio returns cash, valued positions, and total equity
// GET /api/account/portfolio
func (h *AccountHandler) GetPortfolio(c echo.Context) error {
	accountID, err := middleware.GetAccountID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	summary, err := h.tradingService.GetAccountSummary(ctx, accountID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, summary)
}

// GetHoldings returns the account's current positions
// GET /api/account/holdings
func (h *AccountHandler) GetHoldings(c echo.Context) error {
	accountID, err := middleware.GetAccountID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	holdings, err := h.tradingService.GetHoldings(ctx, accountID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, holdings)
}

// GetHistory returns the account's transaction log, newest first
// GET /api/account/history?limit=50
func (h *AccountHandler) GetHistory(c echo.Context) error {
	accountID, err := middleware.GetAccountID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Not authenticated")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return BadRequestResponse(c, "Invalid limit")
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	history, err := h.tradingService.GetTransactionHistory(ctx, accountID, limit)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, history)
}

// Deposit adds cash to the account within the configured bounds
// POST /api/account/deposit
func (h *AccountHandler) Deposit(c echo.Context) error {
	accountID, err := middleware.GetAccountID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Not authenticated")
	}

	var req dto.DepositRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.accountService.Deposit(ctx, accountID, req.Amount); err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]string{
		"message": "Deposit completed",
		"amount":  req.Amount.String(),
	})
}

// ChangePassword replaces the account's credential
// POST /api/account/password
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	accountID, err := middleware.GetAccountID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Not authenticated")
	}

	var req dto.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if len(req.NewPassword) < 6 {
		return BadRequestResponse(c, "Password must be at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.accountService.ChangeCredential(ctx, accountID, req.NewPassword); err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]string{"message": "Password updated"})
}
