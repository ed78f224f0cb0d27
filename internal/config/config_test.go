package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.TypingDelay != time.Second {
		t.Errorf("TypingDelay = %v, want 1s", cfg.TypingDelay)
	}
	if cfg.TranscriptLimit != 250 {
		t.Errorf("TranscriptLimit = %d, want 250", cfg.TranscriptLimit)
	}
	if cfg.GoogleCalendarID != "primary" {
		t.Errorf("GoogleCalendarID = %q, want primary", cfg.GoogleCalendarID)
	}
	if cfg.CalendarEnabled() {
		t.Error("CalendarEnabled() = true without Google credentials")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ASSISTANT_TYPING_DELAY", "250ms")
	t.Setenv("ASSISTANT_TRANSCRIPT_LIMIT", "50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://consultorio.example, https://admin.example")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.TypingDelay != 250*time.Millisecond {
		t.Errorf("TypingDelay = %v, want 250ms", cfg.TypingDelay)
	}
	if cfg.TranscriptLimit != 50 {
		t.Errorf("TranscriptLimit = %d, want 50", cfg.TranscriptLimit)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://consultorio.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS = false, want true")
	}
}

func TestCalendarEnabled(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REFRESH_TOKEN", "token")

	if !Load().CalendarEnabled() {
		t.Error("CalendarEnabled() = false with full Google credentials")
	}
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("ASSISTANT_TRANSCRIPT_LIMIT", "not-a-number")
	t.Setenv("ASSISTANT_TYPING_DELAY", "soon")
	t.Setenv("REDIS_TLS", "yes-please")

	cfg := Load()

	if cfg.TranscriptLimit != 250 {
		t.Errorf("TranscriptLimit = %d, want default 250", cfg.TranscriptLimit)
	}
	if cfg.TypingDelay != time.Second {
		t.Errorf("TypingDelay = %v, want default 1s", cfg.TypingDelay)
	}
	if cfg.RedisTLS {
		t.Error("RedisTLS = true, want default false")
	}
}
