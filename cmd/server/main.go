package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "officetrack-backend/internal/api/http"
	"officetrack-backend/internal/config"
	"officetrack-backend/internal/logger"
	"officetrack-backend/internal/obs"
	"officetrack-backend/internal/repository/postgres"
	"officetrack-backend/internal/security"
	"officetrack-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting OfficeTrack backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize metrics
	obs.Init()

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
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Push Sender
	var pushSender service.PushSender
	if cfg.Firebase.CredentialsFile != "" {
		pushSender, err = service.NewFCMSender(context.Background(), cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize FCM", "error", err)
			log.Fatalf("Failed to initialize FCM: %v", err)
		}
		logger.Info("FCM push sender initialized")
	} else {
		logger.Warn("No Firebase credentials configured, push notifications disabled")
		pushSender = service.NewNoopPushSender()
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	// Initialize Services
	noteSvc := service.NewNotificationService(store.NotificationRepository, pushSender)
	authSvc := service.NewAuthService(store.UserRepository, store.OfficeRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository, authSvc, emailSvc)
	officeSvc := service.NewOfficeService(store.OfficeRepository)
	attendanceSvc := service.NewAttendanceService(store.AttendanceRepository, store.OfficeRepository, cfg.Attendance.GeofenceRadiusMeters)
	distributionSvc := service.NewDistributionService(store.DistributionRepository, store.UserRepository, store.OfficeRepository, noteSvc)
	locationSvc := service.NewLocationService(store.LocationRepository, store.UserRepository, noteSvc)

	// Set up HTTP server
	router := httpapi.NewRouter(&httpapi.Handlers{
		TokenManager:  tokenManager,
		Users:         store.UserRepository,
		DB:            db,
		Auth:          authSvc,
		User:          userSvc,
		Office:        officeSvc,
		Attendance:    attendanceSvc,
		Distribution:  distributionSvc,
		Location:      locationSvc,
		Notifications: noteSvc,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
