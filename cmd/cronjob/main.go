package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"rentwheels-backend/internal/config"
	"rentwheels-backend/internal/jobs"
	"rentwheels-backend/internal/logger"
	"rentwheels-backend/internal/repository/postgres"
	"rentwheels-backend/internal/scheduler"
	"rentwheels-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'mark-overdue-rentals', 'all-nightly')")
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
	logger.Info("Starting RentWheels Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Notifier
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
	notifier := service.NewNotifier(
		store.OutboxRepository,
		sinks,
		service.RetryConfig{
			MaxAttempts: cfg.Notifier.MaxAttempts,
			BackoffBase: time.Duration(cfg.Notifier.BackoffBaseMS) * time.Millisecond,
		},
		int32(cfg.Notifier.MaxAttempts),
		int32(cfg.Notifier.DispatchBatch),
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, notifier, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "mark-overdue-rentals":
		jobRunner.MarkOverdueRentals()
	case "dispatch-outbox":
		jobRunner.DispatchOutbox()
	case "reconcile-unpaid-penalties":
		jobRunner.ReconcileUnpaidPenalties()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - mark-overdue-rentals\n")
		fmt.Printf("  - dispatch-outbox\n")
		fmt.Printf("  - reconcile-unpaid-penalties\n")
		fmt.Printf("  - all-nightly\n")
		os.Exit(1)
	}
}
