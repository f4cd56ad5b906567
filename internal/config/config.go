package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Port       string
	DBDSN      string
	OffersFile string // optional flat JSON file of store offers

	JWTSecret string
	TokenTTL  time.Duration

	// AI provider (OpenAI-compatible chat completions)
	AIAPIKey  string
	AIAPIURL  string
	AIModel   string
	AITimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port:       getEnv("PORT", "8080"),
		DBDSN:      getEnv("DB_DSN", "shelfaware.db"), // sqlite file in project root
		OffersFile: getEnv("OFFERS_FILE", ""),

		JWTSecret: getEnv("JWT_SECRET", "dev-only-secret"),
		TokenTTL:  parseDuration(getEnv("TOKEN_TTL", "24h"), 24*time.Hour),

		AIAPIKey:  getEnv("AI_API_KEY", ""),
		AIAPIURL:  getEnv("AI_API_URL", "https://api.openai.com/v1/chat/completions"),
		AIModel:   getEnv("AI_MODEL", "gpt-4o-mini"),
		AITimeout: parseDuration(getEnv("AI_TIMEOUT", "30s"), 30*time.Second),
	}

	slog.Info("config loaded",
		"port", cfg.Port,
		"db_dsn", cfg.DBDSN,
		"offers_file", cfg.OffersFile,
		"ai_model", cfg.AIModel,
		"ai_enabled", cfg.AIAPIKey != "",
	)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
