package config

import (
	"errors"
	"io/fs"
	"os"

	"mathmark/internal/structural"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Canvas struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"canvas"`
	Oracle struct {
		Provider       string `yaml:"provider"` // gemini, openai, ollama
		Model          string `yaml:"model"`
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		CacheSize      int    `yaml:"cache_size"`
	} `yaml:"oracle"`
	Structural structural.Options `yaml:"structural"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Canvas.Width = 800
	cfg.Canvas.Height = 600
	cfg.Oracle.Provider = "gemini"
	cfg.Oracle.TimeoutSeconds = 30
	cfg.Oracle.CacheSize = 512
	cfg.Structural = structural.DefaultOptions()
	cfg.Log.Level = "info"
	cfg.Storage.Path = "mathmark.db"
	return &cfg
}

// LoadConfig reads path on top of Default. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("MATHMARK_API_KEY"); apiKey != "" {
		cfg.Oracle.APIKey = apiKey
	}
	if provider := os.Getenv("MATHMARK_ORACLE_PROVIDER"); provider != "" {
		cfg.Oracle.Provider = provider
	}
	if model := os.Getenv("MATHMARK_ORACLE_MODEL"); model != "" {
		cfg.Oracle.Model = model
	}

	return cfg, nil
}
