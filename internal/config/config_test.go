package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDRESS", "PORT", "APP_ENV", "MONGODB_URI", "JWT_SECRET", "JWT_EXPIRATION", "CLIENT_URL", "RATE_LIMIT_REQUESTS", "TRUST_PROXY"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ServerAddress != ":5000" {
		t.Errorf("unexpected address %q", cfg.ServerAddress)
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Errorf("expected development, got %q", cfg.Environment)
	}
	if cfg.UseMongo() {
		t.Error("mongo should be off without a URI")
	}
	if cfg.JWTExpiration != 7*24*time.Hour {
		t.Errorf("unexpected jwt expiration %v", cfg.JWTExpiration)
	}
	if cfg.RateLimitRequests != 100 || cfg.RateLimitWindow != 15*time.Minute {
		t.Errorf("unexpected global limit %d/%v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if cfg.MessageRateLimitRequests != 5 || cfg.MessageRateLimitWindow != time.Hour {
		t.Errorf("unexpected message limit %d/%v", cfg.MessageRateLimitRequests, cfg.MessageRateLimitWindow)
	}
	if cfg.TrustProxy {
		t.Error("forwarding headers must not be trusted by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate in development: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("JWT_EXPIRATION", "12h")
	t.Setenv("CLIENT_URL", "https://me.dev/, https://www.me.dev")
	t.Setenv("MESSAGE_RATE_LIMIT_REQUESTS", "not-a-number")
	t.Setenv("TRUST_PROXY", "true")

	cfg := Load()
	if cfg.ServerAddress != ":9090" {
		t.Errorf("PORT should set the address, got %q", cfg.ServerAddress)
	}
	if !cfg.IsProduction() || !cfg.UseMongo() {
		t.Errorf("unexpected env/store: %s", cfg)
	}
	if cfg.JWTExpiration != 12*time.Hour {
		t.Errorf("unexpected expiration %v", cfg.JWTExpiration)
	}
	if want := []string{"https://me.dev", "https://www.me.dev"}; !reflect.DeepEqual(cfg.ClientOrigins, want) {
		t.Errorf("origins = %v, want %v", cfg.ClientOrigins, want)
	}
	if cfg.MessageRateLimitRequests != 5 {
		t.Errorf("invalid number should fall back, got %d", cfg.MessageRateLimitRequests)
	}
	if !cfg.TrustProxy {
		t.Error("TRUST_PROXY=true should be honoured")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Environment: "production", JWTSecret: DefaultJWTSecret, DataDir: "./data", AdminEmail: "a@b.c"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"JWT_SECRET", "ADMIN_EMAIL and ADMIN_PASSWORD"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"7d":   7 * 24 * time.Hour,
		"90m":  90 * time.Minute,
		"":     time.Second,
		"0d":   time.Second,
		"soon": time.Second,
	}
	for in, want := range tests {
		if got := parseDuration(in, time.Second); got != want {
			t.Errorf("parseDuration(%q) = %v, want %v", in, got, want)
		}
	}
}
