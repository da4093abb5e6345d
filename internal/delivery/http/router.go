package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "stocksim/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler    *AuthHandler
	TradeHandler   *TradeHandler
	AccountHandler *AccountHandler
	JWTSecret      string
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "stocksim-api",
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
	}

	// Protected routes: every handler past this point receives a
	// pre-validated account id from the token
	authRequired := custommiddleware.AuthMiddleware(config.JWTSecret)

	api.GET("/quote", config.TradeHandler.Quote, authRequired)

	trades := api.Group("/trades", authRequired)
	{
		trades.POST("/buy", config.TradeHandler.Buy)
		trades.POST("/sell", config.TradeHandler.Sell)
	}

	account := api.Group("/account", authRequired)
	{
		account.GET("/portfolio", config.AccountHandler.GetPortfolio)
		account.GET("/holdings", config.AccountHandler.GetHoldings)
		account.GET("/history", config.AccountHandler.GetHistory)
		account.POST("/deposit", config.AccountHandler.Deposit)
		account.POST("/password", config.AccountHandler.ChangePassword)
	}
}
