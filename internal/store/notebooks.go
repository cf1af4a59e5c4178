package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sourcebook/internal/logging"
	"sourcebook/internal/types"
)

const timeFormat = time.RFC3339Nano

// ErrNotebookNotFound is returned when a notebook id does not exist.
var ErrNotebookNotFound = fmt.Errorf("notebook not found")

// CreateNotebook creates a new notebook with a fresh id.
func (s *LocalStore) CreateNotebook(title string) (*types.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nb := &types.Notebook{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO notebooks(id, title, created_at) VALUES(?, ?, ?)`,
		nb.ID, nb.Title, nb.CreatedAt.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to create notebook: %w", err)
	}

	logging.Store("Created notebook %s (%q)", nb.ID, nb.Title)
	return nb, nil
}

// GetNotebook returns a notebook by id, or ErrNotebookNotFound.
func (s *LocalStore) GetNotebook(id string) (*types.Notebook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getNotebookLocked(id)
}

func (s *LocalStore) getNotebookLocked(id string) (*types.Notebook, error) {
	var nb types.Notebook
	var created string
	err := s.db.QueryRow(
		`SELECT id, title, created_at FROM notebooks WHERE id = ?`, id).
		Scan(&nb.ID, &nb.Title, &created)
	if err == sql.ErrNoRows {
		return nil, ErrNotebookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}
	nb.CreatedAt = parseTime(created)
	return &nb, nil
}

// ListNotebooks returns all notebooks in creation order.
func (s *LocalStore) ListNotebooks() ([]types.Notebook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, title, created_at FROM notebooks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notebooks: %w", err)
	}
	defer rows.Close()

	notebooks := make([]types.Notebook, 0)
	for rows.Next() {
		var nb types.Notebook
		var created string
		if err := rows.Scan(&nb.ID, &nb.Title, &created); err != nil {
			return nil, fmt.Errorf("failed to scan notebook: %w", err)
		}
		nb.CreatedAt = parseTime(created)
		notebooks = append(notebooks, nb)
	}
	return notebooks, rows.Err()
}

// DeleteNotebook removes a notebook and, atomically, its sources,
// conversation log, and saved items. The active-notebook pointer is cleared
// if it referenced the deleted notebook. Deleting an absent id is a no-op.
func (s *LocalStore) DeleteNotebook(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM saved_items WHERE notebook_id = ?`,
		`DELETE FROM messages WHERE notebook_id = ?`,
		`DELETE FROM sources WHERE notebook_id = ?`,
		`DELETE FROM notebooks WHERE id = ?`,
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			return fmt.Errorf("failed to delete notebook data: %w", err)
		}
	}
	if _, err := tx.Exec(
		`DELETE FROM app_state WHERE key = ? AND value = ?`,
		StateActiveNotebook, id); err != nil {
		return fmt.Errorf("failed to clear active pointer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notebook delete: %w", err)
	}
	logging.Store("Deleted notebook %s", id)
	return nil
}

// parseTime parses a stored RFC3339 timestamp. A corrupt value degrades to
// the zero time instead of failing the read.
func parseTime(value string) time.Time {
	t, err := time.Parse(timeFormat, value)
	if err != nil {
		logging.StoreDebug("Unparsable timestamp %q: %v", value, err)
		return time.Time{}
	}
	return t
}
