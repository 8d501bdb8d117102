package main

import (
	"fmt"
	"net/http"
	"os"

	"quincena/internal/config"
	"quincena/internal/database"
	"quincena/internal/exchange"
	"quincena/internal/logger"
	"quincena/internal/router"
)

// @title           Quincena API
// @version         1.0
// @description     Personal finance API: expenses bucketed into pay periods, salaries and the aguinaldo, stock grants and recurring templates.
// @termsOfService  http://swagger.io/terms/

// @contact.name  API Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	if appConfig.ExchangeRateAPIKey == "" {
		log.Warn("EXCHANGE_RATE_API_KEY is not set; /api/exchange-rate will answer 500")
	}
	rates := exchange.NewClient(
		&http.Client{Timeout: appConfig.ExchangeRateTimeout},
		appConfig.ExchangeRateAPIURL,
		appConfig.ExchangeRateAPIKey,
	)

	engine := router.New(dbManager.DB(), appConfig, rates)

	log.Infof("Starting Quincena backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}
