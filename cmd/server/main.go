package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "learnledger-backend/internal/api/http"
	"learnledger-backend/internal/config"
	"learnledger-backend/internal/logger"
	"learnledger-backend/internal/repository/postgres"
	"learnledger-backend/internal/security"
	"learnledger-backend/internal/service"
	"learnledger-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LearnLedger Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

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
	tokenLifetime := time.Duration(cfg.JWT.AccessTokenExpiry) * time.Minute
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, tokenLifetime)

	// Initialize Media Storage
	mediaStore, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize media storage", "error", err)
		log.Fatalf("Failed to initialize media storage: %v", err)
	}
	logger.Info("Using local media storage", "upload_dir", cfg.Storage.UploadDir)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	bankSvc := service.NewBankService(store.BankAccountRepository, store.UserRepository, cfg.Platform.AccountNumber)
	authSvc := service.NewAuthService(store.UserRepository, store.BankAccountRepository, tokenManager)
	courseSvc := service.NewCourseService(
		store.CourseRepository,
		store.UserRepository,
		store.TransactionRepository,
		bankSvc,
		cfg.Platform.MaxCourses,
	)
	enrollmentSvc := service.NewEnrollmentService(
		store.EnrollmentRepository,
		store.CourseRepository,
		store.TransactionRepository,
		store.CertificateRepository,
		store.UserRepository,
		bankSvc,
		emailSvc,
	)
	instructorSvc := service.NewInstructorService(
		store.CourseRepository,
		store.TransactionRepository,
		store.EnrollmentRepository,
		store.UserRepository,
		bankSvc,
		emailSvc,
	)
	adminSvc := service.NewAdminService(
		store.UserRepository,
		store.CourseRepository,
		store.TransactionRepository,
		store.BankAccountRepository,
		cfg.Platform.AccountNumber,
	)
	reconcileSvc := service.NewReconciliationService(
		store.TransactionRepository,
		store.EnrollmentRepository,
		store.CourseRepository,
		store.UserRepository,
		store.BankAccountRepository,
		cfg.Platform.AccountNumber,
	)

	// Set up HTTP router
	router := httpapi.NewRouter(httpapi.Services{
		Auth:        authSvc,
		Bank:        bankSvc,
		Courses:     courseSvc,
		Enrollments: enrollmentSvc,
		Instructor:  instructorSvc,
		Admin:       adminSvc,
		Reconcile:   reconcileSvc,
		Tokens:      tokenManager,
		Media:       mediaStore,
	})

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
