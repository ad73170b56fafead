package main

import (
	"context"
	"log"

	"clinrecords/internal/config"
	"clinrecords/internal/database"
	"clinrecords/internal/domain/auth"
	"clinrecords/internal/domain/patient"
)

// Seeds a sample staff account so the login flow works out of the box.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db,
		&patient.Patient{},
		&patient.FileRecord{},
		&auth.StaffAccount{},
		&auth.OneTimeCode{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	repo := auth.NewRepository(db)
	ctx := context.Background()

	if _, err := repo.GetStaffByEmployeeID(ctx, "EMP001"); err == nil {
		log.Println("Sample staff account EMP001 already exists")
		return
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		log.Fatal("Hashing failed:", err)
	}

	if err := repo.CreateStaff(ctx, &auth.StaffAccount{
		EmployeeID:   "EMP001",
		PasswordHash: hash,
		Name:         "Test User",
	}); err != nil {
		log.Fatal("Seed failed:", err)
	}

	log.Println("Created sample staff account EMP001")
}
