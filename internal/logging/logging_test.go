package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeDisabled(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, false, "info"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer CloseAll()

	// No directory should be created and logging must be a no-op.
	Store("should not appear anywhere")
	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Errorf("logs directory created in disabled mode")
	}
}

func TestInitializeDebugWritesFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, true, "debug"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer func() {
		CloseAll()
		Initialize(t.TempDir(), false, "info")
	}()

	Studio("intent dispatched: %s", "quiz")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}

	var studioLog string
	for _, e := range entries {
		if strings.Contains(e.Name(), "studio") {
			studioLog = filepath.Join(dir, "logs", e.Name())
		}
	}
	if studioLog == "" {
		t.Fatalf("no studio log file written, got %v", entries)
	}

	data, err := os.ReadFile(studioLog)
	if err != nil {
		t.Fatalf("read studio log: %v", err)
	}
	if !strings.Contains(string(data), "intent dispatched: quiz") {
		t.Errorf("log entry missing, got: %s", data)
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, true, "warn"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer func() {
		CloseAll()
		Initialize(t.TempDir(), false, "info")
	}()

	l := Get(CategoryLLM)
	l.Info("info should be filtered")
	l.Warn("warn should pass")
	CloseAll()

	entries, _ := os.ReadDir(filepath.Join(dir, "logs"))
	for _, e := range entries {
		if !strings.Contains(e.Name(), "llm") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, "logs", e.Name()))
		if err != nil {
			t.Fatalf("read llm log: %v", err)
		}
		if strings.Contains(string(data), "info should be filtered") {
			t.Errorf("info line written at warn level")
		}
		if !strings.Contains(string(data), "warn should pass") {
			t.Errorf("warn line missing")
		}
		return
	}
	t.Fatalf("no llm log file written")
}
