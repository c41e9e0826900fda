package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API      APIConfig     `yaml:"api"`
	Storage  StorageConfig `yaml:"storage"`
	LogLevel string        `yaml:"log_level"`
}

type APIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	AdminPrefix string        `yaml:"admin_prefix"`
	PageSize    int           `yaml:"page_size"`
}

type StorageConfig struct {
	// SnapshotPath is where the persisted client state (tokens, engagement
	// sets) lives. Empty keeps everything in memory.
	SnapshotPath string `yaml:"snapshot_path"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// LoadDefault builds a config purely from the environment, for callers that
// ship no config file.
func LoadDefault() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL: os.Getenv("NEWSREADER_BASE_URL"),
		},
		Storage: StorageConfig{
			SnapshotPath: os.Getenv("NEWSREADER_SNAPSHOT_PATH"),
		},
		LogLevel: os.Getenv("NEWSREADER_LOG_LEVEL"),
	}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.API.AdminPrefix == "" {
		c.API.AdminPrefix = "/admin"
	}
	if c.API.PageSize == 0 {
		c.API.PageSize = 20
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
