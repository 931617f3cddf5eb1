package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultTelegramAPIURL = "https://api.telegram.org"

// LoadNotifier reads the notifier settings from the environment. If envFile
// exists it is loaded first; variables already set in the environment win.
func LoadNotifier(envFile string) (*Notifier, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %q: %w", envFile, err)
		}
	}

	cfg := &Notifier{
		// Required
		BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		// Optional with defaults
		APIURL:  getEnvOrDefault("TELEGRAM_API_URL", DefaultTelegramAPIURL),
		Timeout: 10 * time.Second,
	}

	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set as environment variables")
	}

	retries, err := strconv.Atoi(getEnvOrDefault("TELEGRAM_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_RETRIES: %w", err)
	}
	if retries < 1 {
		return nil, fmt.Errorf("TELEGRAM_RETRIES must be at least 1")
	}
	cfg.Retries = retries

	retryDelay, err := time.ParseDuration(getEnvOrDefault("TELEGRAM_RETRY_DELAY", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_RETRY_DELAY: %w", err)
	}
	cfg.RetryDelay = retryDelay
	cfg.MessageDelay = 10 * time.Second

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
