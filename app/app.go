// File: app/app.go
package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-ledger-api/config"
	"go-ledger-api/db"
	"go-ledger-api/handler"
	"go-ledger-api/logger"
	"go-ledger-api/repository"
	"go-ledger-api/router"
	"go-ledger-api/service"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	// All authoritative state lives in memory for the lifetime of the
	// process; the stores below are the only holders of shared mutable data.
	accountRepo := repository.NewAccountRepository()
	transactionRepo := repository.NewTransactionRepository()
	userRepo := repository.NewUserRepository()

	// The account-listing cache is optional. Without it the ledger is fully
	// self-contained.
	var cache service.ICacheClient
	if config.AppConfig.Redis.Enabled {
		redisClient, err := db.ConnectRedis()
		if err != nil {
			logger.Log.Fatalf("Error connecting to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = redisClient
	}

	// --- Wiring All Layers Together ---
	accessService := service.NewAccessService(accountRepo, userRepo)
	accountService := service.NewAccountService(accountRepo, userRepo, cache)
	ledgerService := service.NewLedgerService(accountRepo, transactionRepo)
	userService := service.NewUserService(userRepo, accountRepo)

	userHandler := handler.NewUserHandler(userRepo, userService, accessService)
	accountHandler := handler.NewAccountHandler(accountService, accessService)
	transactionHandler := handler.NewTransactionHandler(ledgerService, accessService)

	if config.AppConfig.Seed.Enabled {
		if err := seedDemoData(userRepo, accountService); err != nil {
			logger.Log.Fatalf("Error seeding demo data: %v", err)
		}
	}

	r := router.NewRouter(userHandler, accountHandler, transactionHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
