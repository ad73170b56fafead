package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the CORS policy. With no CORS_ALLOWED_ORIGINS set every origin
// is accepted (local development); a comma-separated list switches to an
// explicit allow-list with credentials.
func CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length",
			"Authorization", "Accept", "X-Requested-With",
		},
		MaxAge: 10 * time.Minute,
	}

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
		cfg.AllowCredentials = true
	} else {
		cfg.AllowAllOrigins = true
	}

	return cors.New(cfg)
}
