package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	_ "github.com/lib/pq"

	"learnledger-backend/internal/config"
	"learnledger-backend/internal/logger"
	"learnledger-backend/internal/repository/postgres"
	"learnledger-backend/internal/seed"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	rosterPath := flag.String("roster", "config/seed.dev.yaml", "Path to seed roster file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LearnLedger Seeder...", "roster", *rosterPath)

	// Load roster
	roster, err := seed.LoadRoster(*rosterPath)
	if err != nil {
		logger.Error("Failed to load roster", "error", err)
		log.Fatalf("Failed to load roster: %v", err)
	}

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

	// Initialize Repositories and apply the roster
	store := postgres.NewStore(db)
	seeder := seed.NewSeeder(store.UserRepository, store.BankAccountRepository)

	if err := seeder.Apply(context.Background(), roster); err != nil {
		logger.Error("Seeding failed", "error", err)
		log.Fatalf("Seeding failed: %v", err)
	}

	logger.Info("Seeding completed", "accounts", len(roster.Accounts), "users", len(roster.Users))
}
