package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Config is the persisted application configuration. It lives at
// ~/.config/ryujin/config.json and is created with defaults on first run.
type Config struct {
	// Save is the root directory downloaded chapters are written under.
	Save string `json:"save"`
	// Format is the target image extension (".jpg", ".png", ".webp").
	// Empty keeps every page in its source format.
	Format string `json:"img"`

	Slice       bool `json:"slice"`
	SliceHeight int  `json:"slice_height"`
	Group       bool `json:"group"`

	Lang        string `json:"lang"`
	Workers     int    `json:"workers"`
	RateLimitMs int    `json:"rate_limit_ms"`

	ExternalProvider     bool   `json:"external_provider"`
	ExternalProviderPath string `json:"external_provider_path"`
}

var (
	cached     Config
	cachedOnce sync.Once
)

func defaults() Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return Config{
		Save:        filepath.Join(homeDir, "Downloads", "ryujin"),
		Format:      ".jpg",
		SliceHeight: 5000,
		Lang:        "en",
		Workers:     3,
		RateLimitMs: 500,
	}
}

// Dir returns the application config directory, creating it if needed.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve user config directory: %w", err)
	}

	dir := filepath.Join(configDir, "ryujin")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating directory %s: %w", dir, err)
	}
	return dir, nil
}

// Load reads the configuration file, creating it with defaults when it does
// not exist yet.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return defaults(), err
	}

	file := filepath.Join(dir, "config.json")

	if _, err := os.Stat(file); os.IsNotExist(err) {
		log.Printf("Config file not found, creating defaults at '%s'", file)
		cfg := defaults()
		if saveErr := Save(cfg); saveErr != nil {
			return cfg, fmt.Errorf("error creating config file: %w", saveErr)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return defaults(), fmt.Errorf("error reading config file: %w", err)
	}

	cfg := defaults()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return defaults(), fmt.Errorf("error unmarshalling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration file.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Get returns the configuration, loading it once per process. Errors fall
// back to defaults so a corrupt file never takes the application down.
func Get() Config {
	cachedOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			log.Printf("error loading config, using defaults: %v", err)
		}
		cached = cfg
	})
	return cached
}
