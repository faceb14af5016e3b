package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/repository"
)

// Sweeps expired revocation-ledger rows and dead password-reset tokens.
// Meant to run from cron; safe to run concurrently with the API.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()
	now := time.Now().UTC()

	revoked, err := repository.NewRevokedTokenRepository(db).DeleteExpired(ctx, now)
	if err != nil {
		log.Fatalf("cleanup revoked_tokens failed: %v", err)
	}

	resets, err := repository.NewPasswordResetRepository(db).DeleteDead(ctx, now)
	if err != nil {
		log.Fatalf("cleanup password_reset_tokens failed: %v", err)
	}

	log.Printf("auth cleanup completed: revoked_tokens=%d password_reset_tokens=%d", revoked, resets)
}
