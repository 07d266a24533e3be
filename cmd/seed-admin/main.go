package main

import (
	"context"
	"os"

	"go-shop-ledger/internal/config"
	"go-shop-ledger/internal/repository"
	"go-shop-ledger/internal/service"
	"go-shop-ledger/pkg/database"
	"go-shop-ledger/pkg/logger"

	"github.com/joho/godotenv"
)

// seed-admin creates the admin account, or resets its password when it
// already exists. Credentials come from SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD.
func main() {
	log := logger.Get()

	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using system environment")
	}
	cfg := config.Load()

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	name := os.Getenv("SEED_ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}
	if email == "" || password == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set")
	}

	db, err := database.ConnectDB(cfg.DatabaseDSN, cfg.DBLogLevel)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	users := service.NewUserService(repository.NewUserRepo(db))
	user, created, err := users.EnsureAdmin(context.Background(), email, name, password)
	if err != nil {
		log.WithError(err).Fatal("failed to seed admin")
	}

	if created {
		log.WithField("email", user.Email).Info("admin user created")
	} else {
		log.WithField("email", user.Email).Info("admin password reset")
	}
}
