package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sourcebook/internal/logging"
	"sourcebook/internal/types"
)

// AddSource appends a new source to a notebook's registry with a freshly
// generated id. Existing sources are never reordered or removed by an add;
// iteration order equals insertion order.
func (s *LocalStore) AddSource(notebookID, title, content string, kind types.SourceType) (*types.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getNotebookLocked(notebookID); err != nil {
		return nil, err
	}

	src := &types.Source{
		ID:         uuid.NewString(),
		NotebookID: notebookID,
		Type:       kind,
		Title:      title,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO sources(id, notebook_id, position, kind, title, content, created_at)
		 VALUES(?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM sources WHERE notebook_id = ?), ?, ?, ?, ?)`,
		src.ID, notebookID, notebookID, string(src.Type), src.Title, src.Content,
		src.CreatedAt.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to add source: %w", err)
	}

	logging.Store("Added %s source %s (%q) to notebook %s", kind, src.ID, title, notebookID)
	return src, nil
}

// ListSources returns a notebook's sources in insertion order.
func (s *LocalStore) ListSources(notebookID string) ([]types.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, notebook_id, kind, title, content, created_at
		 FROM sources WHERE notebook_id = ? ORDER BY position`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	sources := make([]types.Source, 0)
	for rows.Next() {
		var src types.Source
		var kind, created string
		if err := rows.Scan(&src.ID, &src.NotebookID, &kind, &src.Title, &src.Content, &created); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		src.Type = types.SourceType(kind)
		src.CreatedAt = parseTime(created)
		sources = append(sources, src)
	}
	return sources, rows.Err()
}
