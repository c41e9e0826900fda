package main

import (
	"log/slog"
	"os"

	"newsreader/internal/config"
	"newsreader/pkg/config/env"
)

type AppConfig struct {
	ENV        string
	ConfigPath string
}

func NewAppConfig() *AppConfig {
	path := os.Getenv("NEWSREADER_CONFIG")
	if path == "" {
		path = "cmd/newsreader/config.yaml"
	}
	return &AppConfig{
		ENV:        os.Getenv("ENV"),
		ConfigPath: path,
	}
}

func (ac *AppConfig) Load() (*config.Config, error) {
	err := env.LoadDotEnv(ac.ENV, "cmd/newsreader/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	if _, err := os.Stat(ac.ConfigPath); err != nil {
		slog.Info("No config file found, using environment defaults", "path", ac.ConfigPath)
		return config.LoadDefault(), nil
	}

	return config.Load(ac.ConfigPath)
}
