package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sourcebook/internal/logging"
	"sourcebook/internal/types"
)

// SaveItem creates a new saved item in a notebook's library with a fresh id
// and current timestamp. The content data is copied at promotion time, so
// later changes to the originating message cannot affect the saved copy.
func (s *LocalStore) SaveItem(notebookID, title string, contentType types.ContentType, contentData []byte) (*types.SavedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getNotebookLocked(notebookID); err != nil {
		return nil, err
	}

	item := &types.SavedItem{
		ID:          uuid.NewString(),
		NotebookID:  notebookID,
		Title:       title,
		Type:        contentType,
		ContentData: append([]byte(nil), contentData...),
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO saved_items(id, notebook_id, title, content_type, content_data, created_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		item.ID, notebookID, title, string(contentType), string(item.ContentData),
		item.CreatedAt.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	logging.Store("Saved %s item %s (%q) in notebook %s", contentType, item.ID, title, notebookID)
	return item, nil
}

// SavedItems returns a notebook's saved items in creation order.
func (s *LocalStore) SavedItems(notebookID string) ([]types.SavedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, notebook_id, title, content_type, content_data, created_at
		 FROM saved_items WHERE notebook_id = ? ORDER BY created_at, id`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved items: %w", err)
	}
	defer rows.Close()

	items := make([]types.SavedItem, 0)
	for rows.Next() {
		var item types.SavedItem
		var contentType, data, created string
		if err := rows.Scan(&item.ID, &item.NotebookID, &item.Title, &contentType, &data, &created); err != nil {
			return nil, fmt.Errorf("failed to scan saved item: %w", err)
		}
		item.Type = types.ContentType(contentType)
		item.ContentData = []byte(data)
		item.CreatedAt = parseTime(created)
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteSavedItem removes a saved item by id. Deleting an absent id is a
// no-op, not an error.
func (s *LocalStore) DeleteSavedItem(notebookID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`DELETE FROM saved_items WHERE notebook_id = ? AND id = ?`, notebookID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete saved item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		logging.Store("Deleted saved item %s from notebook %s", itemID, notebookID)
	}
	return nil
}
