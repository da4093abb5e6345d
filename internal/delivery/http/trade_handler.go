package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"stocksim/internal/delivery/http/dto"
	"stocksim/internal/middleware"
	"stocksim/internal/usecase"
)

// TradeHandler handles quote, buy, and sell requests
type TradeHandler struct {
	tradingService *usecase.TradingService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(tradingService *usecase.TradingService) *TradeHandler {
	return &TradeHandler{tradingService: tradingService}
}

// Quote returns the current price for a symbol
// GET /api/quote?symbol=AAPL
func (h *TradeHandler) Quote(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	quote, err := h.tradingService.Quote(ctx, symbol)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, quote)
}

// Buy purchases shares at the current market price
// POST /api/trades/buy
func (h *TradeHandler) Buy(c echo.Context) error {
	accountID, err := middleware.GetAccountID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Not authenticated")
	}

	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}
	if req.Shares < 1 {
		return BadRequestResponse(c, "Buy at least 1 share")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	txID, err := h.tradingService.BuyShares(ctx, accountID, req.Symbol, req.Shares)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.TradeResponse{
		TransactionID: txID,
		Symbol:        req.Symbol,
		Shares:        req.Shares,
	})
}

// Sell sells shares at the current market price
// POST /api/trades/sell
func (h *TradeHandler) Sell(c echo.Context) error {
	accountID, err := middleware.GetAccountID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Not authenticated")
	}

	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}
	if req.Shares < 1 {
		return BadRequestResponse(c, "Sell at least 1 share")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	txID, err := h.tradingService.SellShares(ctx, accountID, req.Symbol, req.Shares)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.TradeResponse{
		TransactionID: txID,
		Symbol:        req.Symbol,
		Shares:        req.Shares,
	})
}
