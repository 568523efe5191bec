package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ORCHESTRATOR_URL", "TRANSCRIBE_URL", "STORE_DIR", "WHATSAPP_DB_URL", "JWT_SECRET", "CORS_ALLOW_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "3001" {
		t.Fatalf("Port = %q, want 3001", cfg.Port)
	}
	if cfg.OrchestratorURL != "http://openclaw:8000" {
		t.Fatalf("OrchestratorURL = %q", cfg.OrchestratorURL)
	}
	if cfg.TranscribeURL != "http://voice-gateway:8001" {
		t.Fatalf("TranscribeURL = %q", cfg.TranscribeURL)
	}
	if cfg.StoreDir != "./store" {
		t.Fatalf("StoreDir = %q", cfg.StoreDir)
	}
	if cfg.WhatsAppDBURL != "" || cfg.JWTSecret != "" {
		t.Fatal("optional settings must default to empty")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ORCHESTRATOR_URL", "http://localhost:8000")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example , https://b.example")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.OrchestratorURL != "http://localhost:8000" {
		t.Fatalf("OrchestratorURL = %q", cfg.OrchestratorURL)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
}
