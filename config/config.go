// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/foreteller/foreteller/completion"
	"github.com/foreteller/foreteller/prompt"
)

// Config holds every setting the server and CLIs read.
type Config struct {
	Port int `env:"PORT" envDefault:"3001"`

	APIKey      string        `env:"GROQ_API_KEY"`
	APIURL      string        `env:"GROQ_API_URL" envDefault:"https://api.groq.com/openai/v1/chat/completions"`
	Model       string        `env:"AI_MODEL_NAME" envDefault:"llama3-8b-8192"`
	Temperature float64       `env:"AI_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int           `env:"AI_MAX_TOKENS" envDefault:"3000"`
	Timeout     time.Duration `env:"AI_TIMEOUT" envDefault:"60s"`

	ReportMode prompt.Mode `env:"REPORT_MODE" envDefault:"detailed"`

	DatabaseURL       string `env:"DATABASE_URL"`
	AutoMigrate       bool   `env:"DATABASE_AUTO_MIGRATE" envDefault:"false"`
	ReportLogCapacity int    `env:"REPORT_LOG_CAPACITY" envDefault:"500"`
}

// Load reads envFile if it exists, without overriding variables that are
// already set, then parses the environment. An empty envFile skips the
// file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("can't read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d is out of range", c.Port)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("AI_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2, got %v", c.Temperature)
	}
	return nil
}

// CompletionConfigured reports whether an API credential is present.
func (c Config) CompletionConfigured() bool {
	return c.APIKey != ""
}

// CompletionOptions maps the AI settings onto a completion client.
func (c Config) CompletionOptions() completion.Options {
	return completion.Options{
		URL:         c.APIURL,
		APIKey:      c.APIKey,
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Timeout:     c.Timeout,
	}
}
