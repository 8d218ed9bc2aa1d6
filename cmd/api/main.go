package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Gatofitnees/Appmovil-sub001/internal/client"
	"github.com/Gatofitnees/Appmovil-sub001/internal/config"
	"github.com/Gatofitnees/Appmovil-sub001/internal/repository"
	"github.com/Gatofitnees/Appmovil-sub001/internal/server"
	"github.com/Gatofitnees/Appmovil-sub001/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	db := client.InitMysqlClient(cfg.DatabaseURL)

	// A broken credential should stop the deploy, not surface on the first
	// Play-store verification.
	tokenMinter, err := client.NewTokenMinter(&cfg.Google, logger)
	if err != nil {
		logger.Fatal("init google token minter", zap.Error(err))
	}

	appleClient := client.NewAppleClient(&cfg.Apple, cfg.Environment.IsProduction())
	googleClient := client.NewGoogleClient(&cfg.Google, tokenMinter)

	subscriptionRepo := repository.NewSubscriptionRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	subscriptionService := service.NewSubscriptionService(subscriptionRepo, webhookEventRepo, logger)
	receiptService := service.NewReceiptService(appleClient, googleClient, subscriptionRepo, logger)

	srv := server.NewServer(cfg, subscriptionService, receiptService, logger)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	logger.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.Log.Format == "json" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
