// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"AERO_DB_PATH" envDefault:"./data/aerosite.db"`
	SessionSecret string `env:"AERO_SESSION_SECRET,required"`
	ServerHost    string `env:"AERO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"AERO_SERVER_PORT" envDefault:"8000"`
	Env           string `env:"AERO_ENV" envDefault:"development"`
	LogLevel      string `env:"AERO_LOG_LEVEL" envDefault:"info"`
	BaseURL       string `env:"AERO_BASE_URL" envDefault:"http://localhost:8000"`
	SiteName      string `env:"AERO_SITE_NAME" envDefault:"PT Teknologi Aeronautika Utama"`
	UploadsDir    string `env:"AERO_UPLOADS_DIR" envDefault:"./uploads"`

	// Machine translation provider: "google", "openai" or "" to disable.
	TranslateProvider string `env:"AERO_TRANSLATE_PROVIDER" envDefault:"google"`
	OpenAIAPIKey      string `env:"AERO_OPENAI_API_KEY"`
	OpenAIModel       string `env:"AERO_OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Transactional email (contact form). Empty API key disables sending.
	MailAPIKey   string `env:"AERO_MAIL_API_KEY"`
	MailEndpoint string `env:"AERO_MAIL_ENDPOINT" envDefault:"https://api.brevo.com/v3/smtp/email"`
	MailFrom     string `env:"AERO_MAIL_FROM" envDefault:"noreply@example.com"`
	MailFromName string `env:"AERO_MAIL_FROM_NAME" envDefault:"Aerosite"`
	MailTo       string `env:"AERO_MAIL_TO"`

	// Seeding configuration
	DoSeed            bool   `env:"AERO_DO_SEED" envDefault:"false"`
	SeedAdminUsername string `env:"AERO_SEED_ADMIN_USERNAME" envDefault:"admin"`
	SeedAdminPassword string `env:"AERO_SEED_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MailEnabled returns true if the transactional email provider is configured.
func (c Config) MailEnabled() bool {
	return c.MailAPIKey != "" && c.MailTo != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("AERO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	if cfg.DoSeed && cfg.SeedAdminPassword == "" {
		return nil, fmt.Errorf("AERO_SEED_ADMIN_PASSWORD is required when AERO_DO_SEED is enabled")
	}

	return cfg, nil
}
