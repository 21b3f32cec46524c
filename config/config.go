package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	devOrigins = "http://127.0.0.1:5500,http://localhost:5500,http://localhost:3000"

	defaultJWTSecret     = "vitrine-secret-key"
	defaultAdminPassword = "admin123"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Media    MediaConfig
	Order    OrderConfig
}

type AppConfig struct {
	Port         string
	DevMode      bool
	AllowOrigins string
	CatalogTTL   time.Duration
}

type DatabaseConfig struct {
	URL         string
	AutoMigrate bool
}

type AuthConfig struct {
	JWTSecret     string
	JWTTTL        time.Duration
	AdminEmail    string
	AdminPassword string
}

type MediaConfig struct {
	CloudinaryURL    string
	CloudinaryFolder string
	UploadDir        string
}

type OrderConfig struct {
	DefaultWhatsapp string
	Currency        string
	PriceLocale     string
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		App: AppConfig{
			Port:         getEnv("APP_PORT", "8080"),
			DevMode:      getBool("DEV_MODE", false),
			AllowOrigins: getEnv("ALLOW_ORIGINS", devOrigins),
			CatalogTTL:   getDuration("CATALOG_TTL", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			AutoMigrate: getBool("AUTO_MIGRATE", false),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
			JWTTTL:        getDuration("JWT_TTL", 24*time.Hour),
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@vitrine.local"),
			AdminPassword: getEnv("ADMIN_PASSWORD", defaultAdminPassword),
		},
		Media: MediaConfig{
			CloudinaryURL:    getEnv("CLOUDINARY_URL", ""),
			CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "product-images"),
			UploadDir:        getEnv("UPLOAD_DIR", "./static/uploads"),
		},
		Order: OrderConfig{
			DefaultWhatsapp: getEnv("DEFAULT_WHATSAPP", "22967676767"),
			Currency:        getEnv("CURRENCY", "XOF"),
			PriceLocale:     getEnv("PRICE_LOCALE", "fr"),
		},
	}

	// no database configured means there is nothing else to run against
	if cfg.Database.URL == "" {
		cfg.App.DevMode = true
	}
	if strings.TrimSpace(cfg.App.AllowOrigins) == "" {
		cfg.App.AllowOrigins = devOrigins
	}
	for _, key := range cfg.InsecureDefaults() {
		log.Printf("WARNING: %s is unset or left at its built-in default outside dev mode", key)
	}
	return cfg
}

// InsecureDefaults names the secrets still holding their built-in values.
// Dev mode is allowed to run on them.
func (c *Config) InsecureDefaults() []string {
	if c.App.DevMode {
		return nil
	}
	var keys []string
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == defaultJWTSecret {
		keys = append(keys, "JWT_SECRET")
	}
	if c.Auth.AdminPassword == "" || c.Auth.AdminPassword == defaultAdminPassword {
		keys = append(keys, "ADMIN_PASSWORD")
	}
	return keys
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
