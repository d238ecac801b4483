package config

import (
	"strings"
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AERO_SESSION_SECRET", testSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.ServerPort != 8000 {
		t.Errorf("ServerPort = %d, want 8000", cfg.ServerPort)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.ServerAddr() != "localhost:8000" {
		t.Errorf("ServerAddr() = %q, want localhost:8000", cfg.ServerAddr())
	}
	if cfg.TranslateProvider != "google" {
		t.Errorf("TranslateProvider = %q, want google", cfg.TranslateProvider)
	}
	if cfg.SeedAdminUsername != "admin" {
		t.Errorf("SeedAdminUsername = %q, want admin", cfg.SeedAdminUsername)
	}
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("AERO_SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing session secret")
	}
}

func TestLoadShortSecret(t *testing.T) {
	t.Setenv("AERO_SESSION_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for short session secret")
	}
	if !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadSeedRequiresPassword(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AERO_DO_SEED", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when seeding without an admin password")
	}

	t.Setenv("AERO_SEED_ADMIN_PASSWORD", "changeme123")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.DoSeed {
		t.Error("DoSeed = false, want true")
	}
}

func TestMailEnabled(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.MailEnabled() {
		t.Error("MailEnabled() = true without API key and recipient")
	}

	t.Setenv("AERO_MAIL_API_KEY", "key")
	t.Setenv("AERO_MAIL_TO", "sales@example.com")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.MailEnabled() {
		t.Error("MailEnabled() = false with API key and recipient")
	}
}
