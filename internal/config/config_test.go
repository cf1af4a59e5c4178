package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LLM.Provider != "gemini" {
		t.Errorf("default provider = %q, want gemini", cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		t.Error("default model is empty")
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("default database path is empty")
	}
	if cfg.GetLLMTimeout() != 120*time.Second {
		t.Errorf("default LLM timeout = %v", cfg.GetLLMTimeout())
	}
	if cfg.GetIngestTimeout() != 30*time.Second {
		t.Errorf("default ingest timeout = %v", cfg.GetIngestTimeout())
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "sourcebook" {
		t.Errorf("Name = %q", cfg.Name)
	}
}

func TestLoadParsesAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
llm:
  provider: ollama
  model: llama3
  timeout: 45s
storage:
  database_path: /tmp/test.db
logging:
  debug_mode: true
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.Model != "llama3" {
		t.Errorf("LLM config = %+v", cfg.LLM)
	}
	if cfg.GetLLMTimeout() != 45*time.Second {
		t.Errorf("timeout = %v", cfg.GetLLMTimeout())
	}
	if cfg.Storage.DatabasePath != "/tmp/test.db" {
		t.Errorf("db path = %q", cfg.Storage.DatabasePath)
	}
	if !cfg.Logging.DebugMode {
		t.Error("debug mode not parsed")
	}
	// Unset fields keep their defaults.
	if cfg.Ingest.UserAgent == "" {
		t.Error("ingest defaults lost on partial config")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key-123")
	t.Setenv("SOURCEBOOK_PROVIDER", "gemini-sdk")
	t.Setenv("SOURCEBOOK_DB", "/tmp/env.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "test-key-123" {
		t.Errorf("APIKey = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Provider != "gemini-sdk" {
		t.Errorf("Provider = %q", cfg.LLM.Provider)
	}
	if cfg.Storage.DatabasePath != "/tmp/env.db" {
		t.Errorf("DatabasePath = %q", cfg.Storage.DatabasePath)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.LLM.Model = "gemini-2.5-pro"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.LLM.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q after round trip", back.LLM.Model)
	}
}

func TestBadDurationFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "not-a-duration"
	if cfg.GetLLMTimeout() != 120*time.Second {
		t.Errorf("fallback timeout = %v", cfg.GetLLMTimeout())
	}
}
