// Package config loads runtime settings from the environment, with a local
// .env file honored for development. Secrets (database URL, API keys) have
// no baked-in defaults; missing ones are caught at startup.
package config

import (
	"errors"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

type Config struct {
	App      App
	Postgres Postgres
	Redis    Redis
	OpenAI   OpenAI
	Summary  Summary
	Recall   Recall
}

type App struct {
	Port              string
	MaxRequests       int
	RateWindowSeconds int
	ShutdownTimeout   int
	LogLevel          string
}

type Postgres struct {
	URL string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type OpenAI struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

type Summary struct {
	MedicationCutoffYear string
}

type Recall struct {
	Depth    int
	TTLHours int
}

// New reads every setting from the environment.
func New() *Config {
	return &Config{
		App: App{
			Port:              GetEnvString("APP_PORT", ":8080"),
			MaxRequests:       GetEnvInt("APP_MAX_REQUESTS", 60),
			RateWindowSeconds: GetEnvInt("APP_RATE_WINDOW_SECONDS", 60),
			ShutdownTimeout:   GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			LogLevel:          GetEnvString("LOG_LEVEL", "info"),
		},
		Postgres: Postgres{
			URL: GetEnvString("DATABASE_URL", ""),
		},
		Redis: Redis{
			Addr:     GetEnvString("REDIS_ADDR", ""),
			Password: GetEnvString("REDIS_PASSWORD", ""),
			DB:       GetEnvInt("REDIS_DB", 0),
		},
		OpenAI: OpenAI{
			APIKey:      GetEnvString("OPENAI_API_KEY", ""),
			Model:       GetEnvString("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: GetEnvFloat("OPENAI_TEMPERATURE", 0.2),
			MaxTokens:   GetEnvInt("OPENAI_MAX_TOKENS", 2000),
		},
		Summary: Summary{
			MedicationCutoffYear: GetEnvString("MEDICATION_CUTOFF_YEAR", "2023"),
		},
		Recall: Recall{
			Depth:    GetEnvInt("RECALL_DEPTH", 20),
			TTLHours: GetEnvInt("RECALL_TTL_HOURS", 168),
		},
	}
}

// Validate checks the settings that have no sane default.
func (c *Config) Validate() error {
	if c.Postgres.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.OpenAI.APIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	return nil
}
