package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "rentwheels-backend/internal/api/http"
	"rentwheels-backend/internal/config"
	"rentwheels-backend/internal/jobs"
	"rentwheels-backend/internal/logger"
	"rentwheels-backend/internal/payment"
	"rentwheels-backend/internal/penalty"
	"rentwheels-backend/internal/pricing"
	"rentwheels-backend/internal/repository/postgres"
	"rentwheels-backend/internal/scheduler"
	"rentwheels-backend/internal/security"
	"rentwheels-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Local overrides from .env, ignored when absent
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentWheels Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Gateway configuration", "provider", cfg.Gateway.Provider)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Payment Gateway
	gateway, err := buildGateway(cfg)
	if err != nil {
		logger.Error("Failed to initialize payment gateway", "error", err)
		log.Fatalf("Failed to initialize payment gateway: %v", err)
	}

	// Initialize Pricing and Penalty engines
	pricer := pricing.NewEngine(cfg.Pricing)
	penalties := penalty.NewCalculator(cfg.Penalty)

	// Initialize Services
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.CarRepository,
		store.PaymentRepository,
		store.OutboxRepository,
		gateway,
		pricer,
		penalties,
	)
	waiverSvc := service.NewWaiverService(
		store.RentalRepository,
		store.PaymentRepository,
		store.WaiverRepository,
		gateway,
	)

	// Initialize Notifier
	notifier := service.NewNotifier(
		store.OutboxRepository,
		buildSinks(cfg),
		service.RetryConfig{
			MaxAttempts: cfg.Notifier.MaxAttempts,
			BackoffBase: time.Duration(cfg.Notifier.BackoffBaseMS) * time.Millisecond,
		},
		int32(cfg.Notifier.MaxAttempts),
		int32(cfg.Notifier.DispatchBatch),
	)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(store, notifier, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Set up HTTP server
	router := httpapi.NewRouter(rentalSvc, waiverSvc, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}

// buildGateway selects the configured payment gateway implementation.
func buildGateway(cfg *config.Config) (payment.Gateway, error) {
	if cfg.Gateway.Provider == "mercadopago" {
		return payment.NewMercadoPagoGateway(cfg.Gateway.AccessToken)
	}
	logger.Info("Using mock payment gateway")
	return payment.NewMockGateway(), nil
}

// buildSinks assembles the notification fan-out. Email is always on; push
// joins when Firebase credentials are configured.
func buildSinks(cfg *config.Config) []service.EventSink {
	emailSvc := service.NewSendgridEmailService(
		cfg.Sendgrid.APIKey,
		cfg.Sendgrid.FromEmail,
		cfg.Sendgrid.FromName,
		cfg.Sendgrid.OpsEmail,
	)
	sinks := []service.EventSink{service.NewEmailSink(emailSvc)}

	if cfg.Firebase.Enabled {
		push, err := service.NewPushService(context.Background(), cfg.Firebase.CredentialsFile, cfg.Firebase.Topic)
		if err != nil {
			logger.Error("Failed to initialize push notifications, continuing without", "error", err)
		} else {
			sinks = append(sinks, push)
		}
	}
	return sinks
}
