package config

import (
	"net"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultMaxFileSize = 5 * 1024 * 1024 // 5 MiB
	defaultExtensions  = "txt,pdf,png,jpg,jpeg,gif,doc,docx"
)

// Config is built once at startup and injected into services.
// It is never mutated after Load returns.
type Config struct {
	DatabaseURL       string
	UploadDir         string
	AllowedExtensions map[string]bool
	MaxFileSize       int64
	Host              string
	Port              string
	JWTSecret         string
	Debug             bool
}

// Load reads configuration from environment variables. A .env file is
// picked up when present; real environment variables take precedence.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", "medical_records.db"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		AllowedExtensions: parseExtensions(getEnv("ALLOWED_EXTENSIONS", defaultExtensions)),
		MaxFileSize:       getEnvInt64("MAX_FILE_SIZE", defaultMaxFileSize),
		Host:              getEnv("HOST", "0.0.0.0"),
		Port:              getEnv("PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		Debug:             getEnvBool("DEBUG", false),
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// ExtensionList returns the allowed extensions in a stable order.
func (c *Config) ExtensionList() []string {
	exts := make([]string, 0, len(c.AllowedExtensions))
	for e := range c.AllowedExtensions {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

func parseExtensions(raw string) map[string]bool {
	exts := make(map[string]bool)
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		e = strings.TrimPrefix(e, ".")
		if e != "" {
			exts[e] = true
		}
	}
	return exts
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
