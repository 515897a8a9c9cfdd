package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string
	SaveDir      string
	LogFile      string
	Locale       string
}

// Load reads configuration from the environment, after loading a .env
// file if one is present.
func Load() (*Config, error) {
	// A missing .env is fine; the variables may come from the shell.
	_ = godotenv.Load()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}

	cfg := &Config{
		GeminiAPIKey: apiKey,
		SaveDir:      os.Getenv("SAVE_DIR"),
		LogFile:      os.Getenv("LOG_FILE"),
		Locale:       os.Getenv("GAME_LOCALE"),
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = ".saves"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "game.log"
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
	return cfg, nil
}
