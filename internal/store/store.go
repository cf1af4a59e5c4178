// Package store implements the durable state layer for sourcebook.
// All notebook, source, conversation, and saved-item state lives in a single
// SQLite database; every mutation is persisted before the call returns, so
// state survives process restarts. Other components read and write through
// this package and never hold a private mutable copy across calls.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"sourcebook/internal/logging"
)

// LocalStore is the process-wide durable store. It owns all Notebook,
// Source, ConversationMessage, and SavedItem instances.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewLocalStore initializes the SQLite database at the given path.
// Use ":memory:" for an ephemeral store in tests.
func NewLocalStore(path string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logging.StoreDebug("Failed to enable sqlite foreign_keys: %v", err)
	}

	store := &LocalStore{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("LocalStore initialized at %s", path)
	return store, nil
}

// initialize creates the required tables.
func (s *LocalStore) initialize() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS notebooks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY,
			notebook_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sources_notebook ON sources(notebook_id, position);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			notebook_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			role TEXT NOT NULL,
			content_type TEXT NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			content_data TEXT,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_notebook ON messages(notebook_id, position);`,
		`CREATE TABLE IF NOT EXISTS saved_items (
			id TEXT PRIMARY KEY,
			notebook_id TEXT NOT NULL,
			title TEXT NOT NULL,
			content_type TEXT NOT NULL,
			content_data TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saved_notebook ON saved_items(notebook_id);`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database path the store was opened with.
func (s *LocalStore) Path() string {
	return s.dbPath
}

// =============================================================================
// KEY/VALUE APP STATE (active notebook pointer, theme flag)
// =============================================================================

// State keys used by the application.
const (
	StateActiveNotebook = "active_notebook"
	StateTheme          = "theme"
)

// GetState returns the value for a state key. A missing key yields the
// empty string rather than an error: absent or corrupt optional state must
// never block startup.
func (s *LocalStore) GetState(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read state %q: %w", key, err)
	}
	return value, nil
}

// SetState stores a state key. An empty value deletes the key.
func (s *LocalStore) SetState(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		if _, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to clear state %q: %w", key, err)
		}
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO app_state(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write state %q: %w", key, err)
	}
	return nil
}

// ActiveNotebook returns the id of the active notebook, or "" if none.
func (s *LocalStore) ActiveNotebook() (string, error) {
	return s.GetState(StateActiveNotebook)
}

// SetActiveNotebook updates the active notebook pointer. Pass "" to clear.
func (s *LocalStore) SetActiveNotebook(id string) error {
	return s.SetState(StateActiveNotebook, id)
}
