// Package config loads and persists sourcebook configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all sourcebook configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM backend configuration
	LLM LLMConfig `yaml:"llm"`

	// Durable storage configuration
	Storage StorageConfig `yaml:"storage"`

	// URL/file ingestion
	Ingest IngestConfig `yaml:"ingest"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the generation backend.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, gemini-sdk, ollama
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`

	// Ollama-specific host override (used when provider is ollama)
	OllamaHost string `yaml:"ollama_host"`
}

// StorageConfig configures the SQLite-backed durable store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// IngestConfig configures URL fetching and text extraction.
type IngestConfig struct {
	Timeout      string `yaml:"timeout"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	UserAgent    string `yaml:"user_agent"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Level     string `yaml:"level"` // debug, info, warn, error
	Dir       string `yaml:"dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Name:    "sourcebook",
		Version: "0.3.0",

		LLM: LLMConfig{
			Provider:   "gemini",
			Model:      "gemini-2.5-flash",
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
			Timeout:    "120s",
			OllamaHost: "http://localhost:11434",
		},

		Storage: StorageConfig{
			DatabasePath: filepath.Join(dataDir, "sourcebook.db"),
		},

		Ingest: IngestConfig{
			Timeout:      "30s",
			MaxBodyBytes: 8 << 20, // 8 MiB
			UserAgent:    "sourcebook/0.3",
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
			Dir:       dataDir,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sourcebook"
	}
	return filepath.Join(home, ".sourcebook")
}

// DefaultConfigPath returns the default location of the config file.
func DefaultConfigPath() string {
	return filepath.Join(defaultDataDir(), "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; a present but unparsable file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if provider := os.Getenv("SOURCEBOOK_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}
	if model := os.Getenv("SOURCEBOOK_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.LLM.OllamaHost = host
	}
	if path := os.Getenv("SOURCEBOOK_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetIngestTimeout returns the ingestion timeout as a duration.
func (c *Config) GetIngestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Ingest.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
