package main

import (
	"context"
	"log"
	"time"

	"clinrecords/internal/config"
	"clinrecords/internal/database"
	"clinrecords/internal/domain/auth"
)

// Purges one-time codes that expired without ever being verified.
// Verified codes are deleted on use, so anything past its expiry is
// dead weight. Meant to run from cron.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	repo := auth.NewRepository(db)

	removed, err := repo.DeleteExpiredCodes(context.Background(), time.Now())
	if err != nil {
		log.Fatal("OTP cleanup failed:", err)
	}

	log.Printf("OTP cleanup completed: one_time_codes=%d", removed)
}
