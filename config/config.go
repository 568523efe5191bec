package config

import (
	"os"
	"strings"
)

// Feature flags (diisi dari env di main)
var EnableWebsocketEvents bool

type Config struct {
	Port            string
	OrchestratorURL string
	TranscribeURL   string
	StoreDir        string
	WhatsAppDBURL   string // optional: postgres DSN for the whatsmeow store
	JWTSecret       string // optional: enables bearer auth on /api when set
	CORSOrigins     []string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "3001"),
		OrchestratorURL: getEnv("ORCHESTRATOR_URL", "http://openclaw:8000"),
		TranscribeURL:   getEnv("TRANSCRIBE_URL", "http://voice-gateway:8001"),
		StoreDir:        getEnv("STORE_DIR", "./store"),
		WhatsAppDBURL:   getEnv("WHATSAPP_DB_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CORSOrigins:     splitOrigins(getEnv("CORS_ALLOW_ORIGINS", "*")),
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, o := range parts {
		parts[i] = strings.TrimSpace(o)
	}
	return parts
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
