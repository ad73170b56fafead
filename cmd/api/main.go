package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"clinrecords/internal/config"
	"clinrecords/internal/database"
	"clinrecords/internal/domain/auth"
	"clinrecords/internal/domain/patient"
	"clinrecords/internal/domain/system"
	"clinrecords/internal/middleware"
	jwtsvc "clinrecords/internal/pkg/jwt"
	"clinrecords/internal/storage"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db,
		&patient.Patient{},
		&patient.FileRecord{},
		&auth.StaffAccount{},
		&auth.OneTimeCode{},
	); err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, j, auth.NewConsoleSender(cfg.Debug))
	authHandler := auth.NewHandler(authService)

	patientRepo := patient.NewRepository(db)
	patientService := patient.NewService(patientRepo, store, cfg.AllowedExtensions, cfg.MaxFileSize)
	patientHandler := patient.NewHandler(patientService)

	systemHandler := system.NewHandler(cfg)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	root := r.Group("/")
	{
		auth.RegisterRoutes(root, authHandler)
		patient.RegisterRoutes(root, patientHandler)
		system.RegisterRoutes(root, systemHandler)
	}

	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}
