package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/service"
	"storefront/internal/session"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
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

	logger := newLogger(&cfg.Log, cfg.Environment.Name)
	defer logger.Sync()

	db := client.InitMysqlClient(cfg.DatabaseURL)
	redisClient := client.NewRedisClient(&cfg.Redis)
	mailer := client.NewMailer(&cfg.SMTP, logger)

	sessions := session.NewRedisStore(redisClient)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentEventRepo := repository.NewPaymentEventRepository(db)

	if err := categoryRepo.Seed(context.Background()); err != nil {
		logger.Warn("seed categories", zap.Error(err))
	}

	userService := service.NewUserService(userRepo, mailer, &cfg.Auth, cfg.BaseURL, logger)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, logger)
	cartService := service.NewCartService(sessions, productRepo, logger)
	checkoutService := service.NewCheckoutService(db, cartService, productRepo, userRepo, orderRepo, logger)
	paymentService := service.NewPaymentService(db, orderRepo, userRepo, paymentEventRepo, logger)

	srv := server.NewServer(&cfg.Auth,
		userService, catalogService, cartService, checkoutService, paymentService, logger)

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

	if err := srv.Shutdown(); err != nil {
		logger.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}

func newLogger(cfg *config.Log, environment string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if environment == "development" || cfg.Format == "console" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
