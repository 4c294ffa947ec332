package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseDSN string
	Env         string
	AdminUser   string
	AdminPass   string
	// AdminPassHash, when set, takes precedence over AdminPass and is compared
	// with bcrypt instead of a plain constant-time comparison.
	AdminPassHash  string
	BotToken       string
	BotAdminIDs    string
	CompanyName    string
	CompanyEmail   string
	CompanyPhone   string
	CompanyWebsite string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8000")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "agromaq.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.AdminUser = os.Getenv("ADMIN_USER")
	cfg.AdminPass = os.Getenv("ADMIN_PASS")
	cfg.AdminPassHash = os.Getenv("ADMIN_PASS_HASH")
	cfg.BotToken = os.Getenv("BOT_TOKEN")
	cfg.BotAdminIDs = os.Getenv("TELEGRAM_ADMIN_IDS")
	cfg.CompanyName = getEnv("COMPANY_NAME", "AGROMAQ - Maquinaria Agrícola")
	cfg.CompanyEmail = getEnv("COMPANY_EMAIL", "info@agromaq.com.ar")
	cfg.CompanyPhone = getEnv("COMPANY_PHONE", "+54 11 1234-5678")
	cfg.CompanyWebsite = getEnv("COMPANY_WEBSITE", "www.agromaq.com.ar")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
