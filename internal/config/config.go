// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/llm"
	"github.com/abhisek/viva/internal/store"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all application configuration.
type Config struct {
	Addr        string
	DBPath      string
	LogLevel    string
	LogFormat   string
	DefaultLang i18n.Lang
	LLM         llm.Config
}

// Load reads an optional .env file, then configuration from environment
// variables. Variables already set in the environment win over .env.
func Load(envFiles ...string) (*Config, error) {
	if err := loadDotenv(envFiles...); err != nil {
		return nil, err
	}

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	cfg := &Config{
		Addr:        getEnv("VIVA_ADDR", ":8000"),
		DBPath:      dbPath,
		LogLevel:    getEnv("VIVA_LOG_LEVEL", "info"),
		LogFormat:   getEnv("VIVA_LOG_FORMAT", FormatText),
		DefaultLang: i18n.ParseLang(getEnv("VIVA_LANG", "")),
		LLM:         resolveLLM(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolveLLM prefers explicit VIVA_* settings and falls back to well-known
// provider key variables when none is configured.
func resolveLLM() llm.Config {
	cfg := llm.ConfigFromEnv()
	if os.Getenv("VIVA_LLM_PROVIDER") != "" || cfg.HasKey() {
		return cfg
	}
	if discovered, ok := llm.DiscoverConfig(); ok {
		discovered.Timeout = cfg.Timeout
		return discovered
	}
	return cfg
}

// Validate checks that all required configuration fields are set. The LLM
// section is validated separately by the commands that need a provider.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("VIVA_ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return errors.New("VIVA_DB cannot be empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("VIVA_LOG_LEVEL: %w", err)
	}
	switch c.LogFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("VIVA_LOG_FORMAT must be %q or %q, got %q", FormatText, FormatJSON, c.LogFormat)
	}
	return nil
}

// NewLogger builds the application logger.
func NewLogger(c *Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if c.LogFormat == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// loadDotenv loads the given files, or ./.env when none is given. Missing
// files are ignored.
func loadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return fallback
}
