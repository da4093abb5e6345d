package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"stocksim/configs"
	"stocksim/internal/database"
	delivery "stocksim/internal/delivery/http"
	"stocksim/internal/domain"
	"stocksim/internal/infra"
	"stocksim/internal/repository"
	"stocksim/internal/service"
	"stocksim/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := configs.Load()
	ctx := context.Background()

	// Initialize ledger store
	var store domain.LedgerStore
	if cfg.Database.URL == "" {
		log.Println("[WARN] DATABASE_URL not set, using in-memory ledger (state is lost on restart)")
		store = repository.NewMemoryLedgerStore()
	} else {
		db, err := infra.NewDatabase(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		store = repository.NewLedgerStore(db)
	}

	// Initialize collaborators
	oracle := service.NewYahooPriceOracle(cfg.Oracle.BaseURL, cfg.Oracle.Timeout)
	hasher := service.NewBcryptHasher()

	// Initialize engines
	tradingService := usecase.NewTradingService(store, oracle)
	accountService := usecase.NewAccountService(
		store,
		hasher,
		cfg.Ledger.StartingBalance,
		cfg.Ledger.MinDeposit,
		cfg.Ledger.MaxDeposit,
	)

	// Periodic ledger audit
	scheduler := infra.NewScheduler(service.NewAuditService(store), cfg.Ledger.AuditSchedule)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start audit scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Initialize HTTP server
	e := echo.New()
	e.HideBanner = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:    delivery.NewAuthHandler(accountService, cfg.Auth.JWTSecret),
		TradeHandler:   delivery.NewTradeHandler(tradingService),
		AccountHandler: delivery.NewAccountHandler(accountService, tradingService),
		JWTSecret:      cfg.Auth.JWTSecret,
	})

	log.Printf("Starting stocksim on :%s", cfg.Server.Port)
	log.Printf("Environment: %s", cfg.Server.Env)
	log.Printf("Starting balance: %s | Deposit bounds: [%s, %s]",
		cfg.Ledger.StartingBalance, cfg.Ledger.MinDeposit, cfg.Ledger.MaxDeposit)

	// Run server in goroutine
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}
