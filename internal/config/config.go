// Package config reads the server settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"go-meercat/internal/webex"
)

type Config struct {
	WebHost string `validate:"required"`
	WebPort string `validate:"required,numeric"`

	// DatabaseURL selects postgres; otherwise DBPath is a sqlite file.
	DatabaseURL  string
	DBPath       string        `validate:"required_without=DatabaseURL"`
	StoreTimeout time.Duration `validate:"gte=0"`

	WebexToken    string `validate:"required"`
	WebexAPIURL   string `validate:"required,url"`
	WebexRetries  uint   `validate:"gte=1,lte=10"`
	WebhookSecret string

	DialogflowProjectID string `validate:"required"`
	GoogleCredentials   string
	DialogflowLanguage  string `validate:"required"`

	EmailDomain     string `validate:"required,fqdn"`
	BotName         string `validate:"required"`
	SeedFile        string
	BootstrapAdmins []string `validate:"dive,required"`

	LogLevel     string `validate:"oneof=trace debug info warn error"`
	TemplatesDir string
}

// getEnv fetches environment variable or returns fallback
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads envFile when it exists, then the environment. Variables
// already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "load %s", envFile)
		}
	}

	timeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "10s"))
	if err != nil {
		return nil, errors.Wrap(err, "STORE_TIMEOUT")
	}
	retries, err := strconv.ParseUint(getEnv("WEBEX_RETRIES", "3"), 10, 32)
	if err != nil {
		return nil, errors.Wrap(err, "WEBEX_RETRIES")
	}

	cfg := &Config{
		WebHost:             getEnv("WEB_HOST", "0.0.0.0"),
		WebPort:             getEnv("WEB_PORT", "5000"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBPath:              getEnv("DB_PATH", "meercat.db"),
		StoreTimeout:        timeout,
		WebexToken:          os.Getenv("WEBEX_TEAMS_ACCESS_TOKEN"),
		WebexAPIURL:         getEnv("WEBEX_API_URL", webex.DefaultBaseURL),
		WebexRetries:        uint(retries),
		WebhookSecret:       os.Getenv("WEBHOOK_SECRET"),
		DialogflowProjectID: os.Getenv("DIALOGFLOW_PROJECT_ID"),
		GoogleCredentials:   os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DialogflowLanguage:  getEnv("DIALOGFLOW_LANGUAGE", "en"),
		EmailDomain:         getEnv("EMAIL_DOMAIN", "cisco.com"),
		BotName:             getEnv("BOT_NAME", "Meercat"),
		SeedFile:            os.Getenv("SEED_FILE"),
		BootstrapAdmins:     splitList(os.Getenv("BOOTSTRAP_ADMINS")),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		TemplatesDir:        os.Getenv("TEMPLATES_DIR"),
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.WebHost + ":" + c.WebPort
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
