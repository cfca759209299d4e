// Load envs from .env
// Validate required fields
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Core backend (the Go/Python API behind /api/v1)
	BackendBaseURL string
	BackendTimeout time.Duration

	// Gate: HMAC secret for verifying the access_token cookie.
	// Empty secret = unverified expiry check only (see gate package).
	GateJWTSecret string

	// AI
	GeminiAPIKey    string
	EnhanceProvider string // "backend" (default) or "gemini"

	// Watcher-local persistence + Gmail integration (all optional)
	DatabaseDSN          string
	GmailCredentialsPath string
	GmailTokenPath       string
	WatcherInterval      time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 os.Getenv("PORT"),
		BackendBaseURL:       os.Getenv("BACKEND_BASE_URL"),
		GateJWTSecret:        os.Getenv("GATE_JWT_SECRET"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		EnhanceProvider:      os.Getenv("ENHANCE_PROVIDER"),
		DatabaseDSN:          os.Getenv("DATABASE_DSN"),
		GmailCredentialsPath: os.Getenv("GMAIL_CREDENTIALS_PATH"),
		GmailTokenPath:       os.Getenv("GMAIL_TOKEN_PATH"),
	}

	//Set default values if not set
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.EnhanceProvider == "" {
		cfg.EnhanceProvider = "backend"
	}

	if cfg.GmailCredentialsPath == "" {
		cfg.GmailCredentialsPath = "credential.json"
	}

	if cfg.GmailTokenPath == "" {
		cfg.GmailTokenPath = "token.json"
	}

	cfg.BackendTimeout = durationFromEnv("BACKEND_TIMEOUT_SECONDS", 30) * time.Second
	cfg.WatcherInterval = durationFromEnv("WATCHER_INTERVAL_MINUTES", 15) * time.Minute

	//Validate required fields
	if cfg.BackendBaseURL == "" {
		log.Fatal("BACKEND_BASE_URL is required")
	}

	if cfg.EnhanceProvider != "backend" && cfg.EnhanceProvider != "gemini" {
		log.Fatalf("Invalid ENHANCE_PROVIDER %q (want backend or gemini)", cfg.EnhanceProvider)
	}

	if cfg.EnhanceProvider == "gemini" && cfg.GeminiAPIKey == "" {
		log.Fatal("ENHANCE_PROVIDER=gemini requires GEMINI_API_KEY")
	}

	return cfg
}

func durationFromEnv(key string, fallback int64) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		log.Fatalf("Invalid %s: %q", key, raw)
	}
	return time.Duration(n)
}
